package constants

import "time"

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// User roles
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist = "token:blacklist:"
	RedisKeyLoginAttempt   = "login:attempt:"
)

// Login attempt blocking
const (
	MaxLoginAttempts = 5
	BlockDuration    = 15 * time.Minute
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// DefaultTimeout is the default timeout for service-level operations
const DefaultTimeout = 10 * time.Second

// Asynq task types
const (
	TaskCalendarSync = "calendar:sync"
	TaskEmailSend    = "email:send"
)

// Asynq queue names
const (
	QueueDefault = "default"
	QueueSync    = "sync"
)
