package storefrontserver

// LoginRequest is the body of POST /v1/session/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /v1/session/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyOTPRequest is the body of POST /v1/session/verify-otp. Email defaults to the pending one.
type VerifyOTPRequest struct {
	Email string `json:"email,omitempty"`
	OTP   string `json:"otp"`
}

type Address struct {
	Label      string `json:"label,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Verified  bool      `json:"verified"`
	Addresses []Address `json:"addresses"`
}

// Session is the UI view of the session store. The credential token never leaves the process.
type Session struct {
	Status        string   `json:"status"`
	Authenticated bool     `json:"authenticated"`
	User          *User    `json:"user,omitempty"`
	PendingEmail  string   `json:"pendingEmail,omitempty"`
	LastError     string   `json:"lastError,omitempty"`
	InFlight      []string `json:"inFlight"`
}
