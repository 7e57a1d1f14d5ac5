// Package wrapper generates the shell launchers that run packaged executables
// through the $SNAP_APP_PATH runtime directory.
//
// Each executable path maps to "<path>.wrapper" under the package root. The
// launcher script is parsed as POSIX shell before it is written.
package wrapper
