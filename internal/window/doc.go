// Package window holds the two desktop windows of the tray, built with
// fyne: the settings form and the forecast view.
//
// fyne owns the main thread of the process it runs in and so does the
// system tray, so the windows never share a process with the tray. The
// launchers start the same binary with a window subcommand instead:
//
//	weathertray settings-dialog   current settings on stdin, result on stdout
//	weathertray forecast          current settings on stdin
//
// Both directions use the settings TOML encoding. A settings dialog that
// writes nothing was cancelled; one that exits non-zero failed. The
// forecast window is not waited for by the caller. A supervised task
// reaps it and kills it when the tray shuts down.
package window
