package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrFieldNotFound = errors.New("db: field not found")
	ErrTxAborted     = errors.New("db: transaction aborted")
)

// Op constants map to Valkey/Redis command names for error context.
const (
	OpPing      = "PING"
	OpDel       = "DEL"
	OpHGet      = "HGET"
	OpHGetAll   = "HGETALL"
	OpHSet      = "HSET"
	OpHExists   = "HEXISTS"
	OpExists    = "EXISTS"
	OpScan      = "SCAN"
	OpGet       = "GET"
	OpSet       = "SET"
	OpSAdd      = "SADD"
	OpSMembers  = "SMEMBERS"
	OpSIsMember = "SISMEMBER"
	OpSort      = "SORT"
	OpLRange    = "LRANGE"
	OpMultiExec = "MULTI/EXEC"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
