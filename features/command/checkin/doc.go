// Package checkin implements the Check In Reservation use case.
//
// The patron presents their pickup secret at the desk. The handler compares it
// against the stored hash in constant time; on a match the reservation is
// handed over, the copy checked out, and an ongoing loan opened with a due
// date derived from the originally requested duration.
package checkin
