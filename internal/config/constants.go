package config

// Base application details
const AppName = "tidetext"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "tidetext.log"
const DefaultDatabaseFileName = "documents.db"

// History
const DefaultMaxHistory = 100 // redo entries kept
const DefaultJournalLimit = 0 // 0 keeps every operation

// Version is reported by -version.
const Version = "0.3.0"
