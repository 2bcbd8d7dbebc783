// Package files locates the pipeline inputs on disk.
//
// When the attendance report or the limitations table is not given
// explicitly, the newest supported file (.csv or .xlsx) matching the
// configured glob in the input directory is used:
//
//	discovery := files.NewDiscovery(cfg.BaseDir)
//	report, err := discovery.LatestInput(cfg.Input.Dir, cfg.Input.ReportPattern)
package files
