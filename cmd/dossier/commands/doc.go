// Package commands defines the dossier CLI.
//
// Commands
//
//   - scan <domain>  Run every lookup and write the PDF report
//   - lookups        List the registered lookups and their libraries
//   - paths          Print the admin panel wordlist
//   - config         Print the effective configuration as YAML
//   - version        Print build information
//
// # Exit codes
//
// 0 on success, 2 when the target or the configuration is invalid and 1 when
// the report cannot be written. Failed lookups never change the exit code.
package commands
