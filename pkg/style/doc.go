// Package style renders rebackup's human-facing messages: errors,
// warnings and listings. Colors are only used on color terminals.
package style
