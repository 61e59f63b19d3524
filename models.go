package session

// PrivacyLevel controls who can see a profile.
type PrivacyLevel = string

const (
	// PrivacyPublic means anyone can see the profile
	PrivacyPublic PrivacyLevel = "public"
	// PrivacyFollowers restricts the profile to accepted followers
	PrivacyFollowers PrivacyLevel = "followers"
	// PrivacyPrivate hides the profile from everyone
	PrivacyPrivate PrivacyLevel = "private"
)

// User is the backend's profile record for the authenticated account. JSON
// tags mirror the REST contract; BirthDate uses the wire format YYYY-MM-DD.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	FirstName    string       `json:"first_name,omitempty"`
	LastName     string       `json:"last_name,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	Avatar       string       `json:"avatar,omitempty"`
	BirthDate    string       `json:"birth_date,omitempty"`
	Location     string       `json:"location,omitempty"`
	PrivacyLevel PrivacyLevel `json:"privacy_level,omitempty"`
	Following    []int64      `json:"following,omitempty"`
	Followers    []int64      `json:"followers,omitempty"`
}

// DisplayName returns the user's name parts, falling back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// Clone returns a deep copy so snapshot readers can't mutate shared state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Following != nil {
		out.Following = append([]int64(nil), u.Following...)
	}
	if u.Followers != nil {
		out.Followers = append([]int64(nil), u.Followers...)
	}
	return &out
}
