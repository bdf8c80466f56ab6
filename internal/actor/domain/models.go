// Package domain contains persistence models for the actor directory.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role is the set of roles an actor can hold inside an agency.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleWorker  Role = "WORKER"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleWorker:
		return true
	default:
		return false
	}
}

// Worker is a service-provider profile. A worker is affiliated with at most
// one agency at a time; AgencyID is nil while unaffiliated.
type Worker struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	ActorID       snowflake.ID  `gorm:"not null;uniqueIndex:ux_workers_actor" json:"actor_id"`
	DisplayName   string        `gorm:"type:text;not null" json:"display_name"`
	WorkerType    string        `gorm:"type:text;not null;default:''" json:"worker_type"`
	AgencyID      *snowflake.ID `gorm:"index" json:"agency_id"`
	JobsCompleted int64         `gorm:"not null;default:0" json:"jobs_completed"`
	RatingAvg     float64       `gorm:"not null;default:0" json:"rating_avg"`
	RatingCount   int64         `gorm:"not null;default:0" json:"rating_count"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Worker) TableName() string { return "workers" }

// Agency is an organizational actor employing workers under roles.
type Agency struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	ActorID      snowflake.ID `gorm:"not null;index" json:"actor_id"`
	Name         string       `gorm:"type:text;not null;uniqueIndex:ux_agencies_name" json:"name"`
	TotalWorkers int64        `gorm:"not null;default:0" json:"total_workers"`
	RatingAvg    float64      `gorm:"not null;default:0" json:"rating_avg"`
	RatingCount  int64        `gorm:"not null;default:0" json:"rating_count"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Agency) TableName() string { return "agencies" }

// AgencyMember records that an actor holds a role within an agency.
// At most one membership exists per (agency, actor) pair.
type AgencyMember struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	AgencyID  snowflake.ID `gorm:"not null;index;uniqueIndex:ux_agency_members_agency_actor,priority:1" json:"agency_id"`
	ActorID   snowflake.ID `gorm:"not null;index;uniqueIndex:ux_agency_members_agency_actor,priority:2" json:"actor_id"`
	Role      Role         `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AgencyMember) TableName() string { return "agency_members" }
