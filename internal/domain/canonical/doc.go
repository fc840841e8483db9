// Package canonical defines the platform-independent order model that
// every platform's raw records are transformed into, the standard
// status taxonomy, and the repository capability interfaces the ETL
// pipeline persists through.
package canonical
