package editor

// Principal identifies who a session acts for. The set of principals is
// closed: [Guest] and [ClubOwner].
type Principal interface {
	// OwnerID is the venue the principal acts for, empty for guests.
	OwnerID() string
	// CanEdit reports whether the principal may change and save layouts.
	CanEdit() bool
	// String names the principal in logs.
	String() string

	principal()
}

// Guest views layouts on guest-facing displays.
type Guest struct{}

func (Guest) OwnerID() string { return "" }
func (Guest) CanEdit() bool   { return false }
func (Guest) String() string  { return "guest" }
func (Guest) principal()      {}

// ClubOwner edits the layouts of the venue ID.
type ClubOwner struct {
	ID string
}

func (o ClubOwner) OwnerID() string { return o.ID }
func (o ClubOwner) CanEdit() bool   { return o.ID != "" }
func (o ClubOwner) String() string  { return "owner:" + o.ID }
func (ClubOwner) principal()        {}
