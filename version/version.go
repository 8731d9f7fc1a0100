// Package version holds the build version, overridden at link time with
// -ldflags "-X openkeep/version.AppVersion=v1.2.3".
package version

var AppVersion = "dev"
