package session

// Decision is the route guard's verdict for a navigation attempt.
type Decision string

const (
	// DecisionAllow lets the navigation proceed.
	DecisionAllow Decision = "allow"
	// DecisionRedirectToLogin bounces an anonymous user off a protected screen.
	DecisionRedirectToLogin Decision = "redirect_login"
	// DecisionRedirectToHome bounces an authenticated user off an auth-entry screen.
	DecisionRedirectToHome Decision = "redirect_home"
)

// Decide is the route guard: a pure function of the current snapshot with no
// side effects. Screens that require authentication reject anonymous
// sessions; auth-entry screens (login, register) reject authenticated ones.
// Consumers must re-evaluate it on every session change.
func Decide(requiresAuth bool, snap Snapshot) Decision {
	if requiresAuth && !snap.IsAuthenticated() {
		return DecisionRedirectToLogin
	}
	if !requiresAuth && snap.IsAuthenticated() {
		return DecisionRedirectToHome
	}
	return DecisionAllow
}
