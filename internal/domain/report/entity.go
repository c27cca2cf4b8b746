package report

import "time"

// Status is the triage workflow state. It only moves forward:
// Pending -> In Progress -> Done.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

func (s Status) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusDone:
		return 2
	}
	return -1
}

func (s Status) IsValid() bool { return s.Rank() >= 0 }

// Street is resolved once at the ingestion boundary: either a plain
// free-text name or a name with coordinates from a map pin drop. It is
// never re-sniffed downstream.
type Street struct {
	Name    string
	Lat     float64
	Lng     float64
	Located bool
}

func NamedStreet(name string) Street {
	return Street{Name: name}
}

func LocatedStreet(name string, lat, lng float64) Street {
	return Street{Name: name, Lat: lat, Lng: lng, Located: true}
}

// Report is a persisted pollution report. Image URLs are stored as a
// JSON-encoded ordered list (the ImageURLs field mirrors it in memory).
type Report struct {
	ID             int64     `gorm:"column:id;primaryKey" json:"id"`
	UserID         int64     `gorm:"column:user_id;index" json:"user_id"`
	District       string    `gorm:"column:district;index" json:"district,omitempty"`
	Type           string    `gorm:"column:type" json:"type"`
	Description    string    `gorm:"column:description" json:"description"`
	StreetName     string    `gorm:"column:street_name" json:"street_name,omitempty"`
	StreetLocated  bool      `gorm:"column:street_located" json:"-"`
	Lat            float64   `gorm:"column:lat" json:"lat"`
	Lng            float64   `gorm:"column:lng" json:"lng"`
	Images         string    `gorm:"column:images" json:"-"`
	ImageURLs      []string  `gorm:"-" json:"images"`
	Approved       bool      `gorm:"column:approved;index" json:"approved"`
	Rejected       bool      `gorm:"column:rejected" json:"rejected"`
	RejectedReason string    `gorm:"column:rejected_reason" json:"rejected_reason,omitempty"`
	Status         Status    `gorm:"column:status" json:"status"`
	Upvotes        int64     `gorm:"-" json:"upvotes"`
	CapturedAt     time.Time `gorm:"column:captured_at" json:"captured_at"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Report) TableName() string { return "reports" }

// Upvote marks that a user supports a report. One per user per report.
type Upvote struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	ReportID  int64     `gorm:"column:report_id;uniqueIndex:idx_report_user" json:"report_id"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_report_user" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Upvote) TableName() string { return "report_upvotes" }

// Response is an admin comment appended to a report.
type Response struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	ReportID  int64     `gorm:"column:report_id;index" json:"report_id"`
	AdminID   int64     `gorm:"column:admin_id" json:"admin_id"`
	Message   string    `gorm:"column:message" json:"message"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Response) TableName() string { return "report_responses" }
