package services

// Actor identifies the authenticated caller of a core operation. It is
// built once per request from the verified token claims and passed
// explicitly; services never read identity from ambient state.
type Actor struct {
	ID   string
	Role string
}
