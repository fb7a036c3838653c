// Package domain defines the core persistence models for the application.
// This file declares the closed enumerations used by complaint records:
// lifecycle status, complaint category, responsible agency, and user role.
package domain

// Status is the complaint lifecycle state. A complaint always carries
// exactly one of the four values; PENDING is assigned at creation. Any
// status may be targeted by an admin transition (terminality of RESOLVED
// and REJECTED is a UI convention, not a store invariant).
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusRejected   Status = "REJECTED"
)

// Statuses lists every valid Status in declaration order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

// Valid reports whether s is a member of the status enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Category classifies a complaint by the kind of civic issue reported.
type Category string

const (
	CategoryRoads        Category = "ROADS"
	CategoryWater        Category = "WATER"
	CategoryElectricity  Category = "ELECTRICITY"
	CategoryWaste        Category = "WASTE"
	CategoryTransport    Category = "TRANSPORT"
	CategoryHealthcare   Category = "HEALTHCARE"
	CategoryEducation    Category = "EDUCATION"
	CategoryPublicSafety Category = "PUBLIC_SAFETY"
	CategoryEnvironment  Category = "ENVIRONMENT"
	CategoryOther        Category = "OTHER"
)

// Categories lists every valid Category in declaration order.
var Categories = []Category{
	CategoryRoads, CategoryWater, CategoryElectricity, CategoryWaste,
	CategoryTransport, CategoryHealthcare, CategoryEducation,
	CategoryPublicSafety, CategoryEnvironment, CategoryOther,
}

// Valid reports whether c is a member of the category enumeration.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Agency is the government department responsible for handling a complaint.
type Agency string

const (
	AgencyPublicWorks      Agency = "PUBLIC_WORKS"
	AgencyWaterAuthority   Agency = "WATER_AUTHORITY"
	AgencyElectricityBoard Agency = "ELECTRICITY_BOARD"
	AgencyWasteManagement  Agency = "WASTE_MANAGEMENT"
	AgencyTransport        Agency = "TRANSPORT_AUTHORITY"
	AgencyHealth           Agency = "HEALTH_DEPARTMENT"
	AgencyEducation        Agency = "EDUCATION_DEPARTMENT"
	AgencyPolice           Agency = "POLICE_DEPARTMENT"
	AgencyEnvironment      Agency = "ENVIRONMENTAL_PROTECTION"
	AgencyGeneralAdmin     Agency = "GENERAL_ADMINISTRATION"
)

// Agencies lists every valid Agency in declaration order.
var Agencies = []Agency{
	AgencyPublicWorks, AgencyWaterAuthority, AgencyElectricityBoard,
	AgencyWasteManagement, AgencyTransport, AgencyHealth, AgencyEducation,
	AgencyPolice, AgencyEnvironment, AgencyGeneralAdmin,
}

// Valid reports whether a is a member of the agency enumeration.
func (a Agency) Valid() bool {
	for _, v := range Agencies {
		if a == v {
			return true
		}
	}
	return false
}

// AgencyForCategory maps a complaint category to its default handling
// agency, mirroring the routing the intake form applies when the citizen
// does not pick one explicitly. Unknown categories route to general
// administration.
func AgencyForCategory(c Category) Agency {
	switch c {
	case CategoryRoads:
		return AgencyPublicWorks
	case CategoryWater:
		return AgencyWaterAuthority
	case CategoryElectricity:
		return AgencyElectricityBoard
	case CategoryWaste:
		return AgencyWasteManagement
	case CategoryTransport:
		return AgencyTransport
	case CategoryHealthcare:
		return AgencyHealth
	case CategoryEducation:
		return AgencyEducation
	case CategoryPublicSafety:
		return AgencyPolice
	case CategoryEnvironment:
		return AgencyEnvironment
	default:
		return AgencyGeneralAdmin
	}
}

// Role is the authorization role claimed by an authenticated principal.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a member of the role enumeration.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }
