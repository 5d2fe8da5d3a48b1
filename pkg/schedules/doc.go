// Package schedules implements the agent publication planning workflow.
//
// An administrator opens a schedule for a period. While it is planned and
// not blocked, agents add items describing datasets they intend to publish
// and finally mark their part ready. The administrator reviews items
// (recommendation fields) and moves the schedule to implemented, when
// agents report which items were published, and then to archived.
package schedules
