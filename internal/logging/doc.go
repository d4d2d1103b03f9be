// Package logging configures zerolog for every weathertray subcommand and
// reads the log file back for the report command.
//
// Setup writes human-readable lines to the console and JSON lines to the
// log file, both filtered by the same level. Components attach a
// "component" field; the controller adds "msg_id" for each intake message
// and "kind" for weather failures.
//
// Tail returns the last lines of the log file, and ParseEntry decodes one
// of them.
package logging
