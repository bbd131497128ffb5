package session

const (
	LoginPath  = "/login"
	TopicsPath = "/topics"
)

// Outcome is what a gate wants done with the request.
type Outcome int

const (
	Placeholder Outcome = iota
	Redirect
	Render
)

// Decision is the result of a gate. Location is set for Redirect only.
type Decision struct {
	Outcome  Outcome
	Location string
}

// PublicOnly keeps signed-in users away from the login screen.
func PublicOnly(s State) Decision {
	switch s {
	case Loading:
		return Decision{Outcome: Placeholder}
	case Authenticated:
		return Decision{Outcome: Redirect, Location: TopicsPath}
	default:
		return Decision{Outcome: Render}
	}
}

// ProtectedOnly sends anonymous users to the login screen.
func ProtectedOnly(s State) Decision {
	switch s {
	case Loading:
		return Decision{Outcome: Placeholder}
	case Authenticated:
		return Decision{Outcome: Render}
	default:
		return Decision{Outcome: Redirect, Location: LoginPath}
	}
}
