package interfaces

// Session is one database connection session.
type Session interface {
	Begin() error
	Close() error
	Commit() error
	Rollback() error
}
