package model

//go:generate go run github.com/dmarkham/enumer -type=PublicationStatus -trimprefix=PublicationStatus -transform=snake -json -sql
//go:generate go run github.com/dmarkham/enumer -type=InstitutionType -trimprefix=InstitutionType -transform=snake -json -sql
//go:generate go run github.com/dmarkham/enumer -type=ResourceType -trimprefix=ResourceType -transform=snake -json -sql
//go:generate go run github.com/dmarkham/enumer -type=LinkStatus -trimprefix=LinkStatus -transform=snake -json -sql
//go:generate go run github.com/dmarkham/enumer -type=SourceType -trimprefix=SourceType -transform=snake -json -sql
//go:generate go run github.com/dmarkham/enumer -type=ImportStatus -trimprefix=ImportStatus -transform=kebab -json -sql
//go:generate go run github.com/dmarkham/enumer -type=UserRole -trimprefix=UserRole -transform=snake -json -sql
//go:generate go run github.com/dmarkham/enumer -type=WatcherType -trimprefix=WatcherType -transform=snake -json -sql
//go:generate go run github.com/dmarkham/enumer -type=NotificationType -trimprefix=NotificationType -transform=snake -json -sql
//go:generate go run github.com/dmarkham/enumer -type=NotificationStatus -trimprefix=NotificationStatus -transform=snake -json -sql
//go:generate go run github.com/dmarkham/enumer -type=ScheduleState -trimprefix=ScheduleState -transform=snake -json -sql
//go:generate go run github.com/dmarkham/enumer -type=RecommendationState -trimprefix=RecommendationState -transform=snake -json -sql

// PublicationStatus controls public visibility of organizations, datasets and resources.
type PublicationStatus int

const (
	PublicationStatusDraft PublicationStatus = iota
	PublicationStatusPublished
)

type InstitutionType int

const (
	InstitutionTypeLocal InstitutionType = iota
	InstitutionTypeState
	InstitutionTypePrivate
	InstitutionTypeOther
)

type ResourceType int

const (
	ResourceTypeFile ResourceType = iota
	ResourceTypeApi
	ResourceTypeWebsite
)

// LinkStatus is the outcome of the last broken-link check of a resource.
type LinkStatus int

const (
	LinkStatusUnknown LinkStatus = iota
	LinkStatusOk
	LinkStatusBroken
)

// SourceType selects the harvester adapter of a data source.
type SourceType int

const (
	SourceTypeCkan SourceType = iota
	SourceTypeXml
	SourceTypeDcat
)

type ImportStatus int

const (
	ImportStatusOk ImportStatus = iota
	ImportStatusOkPartialErrors
	ImportStatusError
)

type UserRole int

const (
	UserRoleUser UserRole = iota
	UserRoleEditor
	UserRoleAgent
	UserRoleAdmin
)

type WatcherType int

const (
	WatcherTypeModel WatcherType = iota
	WatcherTypeQuery
)

// NotificationType values keep the historical spelling used by API clients.
type NotificationType int

const (
	NotificationTypeObjectUpdated NotificationType = iota
	NotificationTypeObjectRemoved
	NotificationTypeObjectRestored
	NotificationTypeObjectPublished
	NotificationTypeResultCountIncresed
	NotificationTypeResultCountDecreased
)

type NotificationStatus int

const (
	NotificationStatusNew NotificationStatus = iota
	NotificationStatusRead
)

type ScheduleState int

const (
	ScheduleStatePlanned ScheduleState = iota
	ScheduleStateImplemented
	ScheduleStateArchived
)

type RecommendationState int

const (
	RecommendationStateAwaits RecommendationState = iota
	RecommendationStateAccepted
	RecommendationStateRejected
)
