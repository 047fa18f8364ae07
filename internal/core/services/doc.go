// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// SessionService owns the process-then-ask lifecycle of a question-answering
// session. SettingsService reads and writes the persisted configuration.
package services
