// Package util holds small parsing and formatting helpers shared by the
// server and its configuration.
package util
