package store

import "time"

// User is an observer account. PasswordHash is a bcrypt digest produced by
// the auth component; the store never sees a plaintext password.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Institution  string
	ObserverCode string `gorm:"uniqueIndex"`
	UserLevel    string `gorm:"not null;default:novice"`
	CreatedAt    time.Time
}

// Institution is a consortium member. Code is the single-letter prefix used
// when generating observer codes.
type Institution struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
	Code string `gorm:"uniqueIndex;not null"`
}

// ObservationRequest is the persisted form of schedule.Request.
type ObservationRequest struct {
	ID              uint   `gorm:"primaryKey"`
	ObserverCode    string `gorm:"index;not null"`
	TargetName      string `gorm:"not null"`
	RA              string `gorm:"column:ra;not null"`
	Dec             string `gorm:"column:dec;not null"`
	ObservationType string `gorm:"not null"`
	Filters         string
	Priority        string `gorm:"not null;default:normal"`
	Status          string `gorm:"not null;default:pending"`
	NExp            int    `gorm:"column:nexp;not null"`
	ExposureTime    int    `gorm:"not null;default:1"`
	Reposition      bool   `gorm:"not null;default:false"`
	RepositionX     int    `gorm:"not null;default:1024"`
	RepositionY     int    `gorm:"not null;default:1024"`
	Cadence         string
	UTCStartTime    string
	UTCStartDate    string
	UTCEndTime      string
	UTCEndDate      string
	LSTStartTime    string
	LSTStartDate    string
	LSTEndTime      string
	LSTEndDate      string
	SubmittedOn     time.Time `gorm:"autoCreateTime"`
}

// seedInstitutions are the consortium members known at first boot. Adding
// and removing institutions at runtime is an admin-CLI concern.
var seedInstitutions = []Institution{
	{Name: "Macalester College", Code: "m"},
	{Name: "Augustana College", Code: "a"},
	{Name: "Coe College", Code: "c"},
	{Name: "Knox College", Code: "k"},
	{Name: "The University of Iowa", Code: "i"},
	{Name: "External/Other", Code: "x"},
}
