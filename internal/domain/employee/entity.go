package employee

// Employee is the slice of the directory this subsystem needs: identity,
// contact address for reminders, and whether the employee is swept for
// absence. Profile CRUD lives elsewhere.
type Employee struct {
	ID       string
	UserID   *string
	FullName string
	Email    string
	IsActive bool
	IsAdmin  bool
}
