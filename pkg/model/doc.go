// Package model defines the database models of the open-data portal.
//
// # Core Models
//
//   - Organization: Publishing institution
//   - Dataset: Published collection of resources, optionally harvested
//   - Resource: Single file, API or website belonging to a dataset
//   - Category, Tag: Dataset classification
//   - DataSource, DataSourceImport: Harvested catalogs and their runs
//   - User: Portal account with a role
//   - Watcher, Subscription, Notification: Change tracking for users
//   - Schedule, UserSchedule, UserScheduleItem: Agents' publication plans
//
// Enumerated columns are stored as text through enumer-generated
// sql.Scanner and driver.Valuer implementations.
package model
