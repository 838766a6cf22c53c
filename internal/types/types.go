package types

const ContextUserKey = "user"

// Session value keys, bound at login and cleared at logout.
const (
	SessionUserID    = "userId"
	SessionEmail     = "userEmail"
	SessionFirstName = "firstName"
	SessionLastName  = "lastName"
)

const UnknownLeaderName = "Unknown"

type UserResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type ProjectResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	WorkLog     string  `json:"work_log"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Archived    bool    `json:"archived"`
	LeaderID    uint    `json:"leader_id"`
}

// ProjectView is the template-facing shape of a project listing entry:
// the record plus whatever foreign identities the view resolves eagerly.
type ProjectView struct {
	ID          uint
	Title       string
	Description string
	Price       float64
	WorkLog     string
	StartDate   string
	EndDate     string
	Archived    bool
	LeaderName  string
	Members     []MemberView
}

type MemberView struct {
	ID       uint
	FullName string
	Email    string
}
