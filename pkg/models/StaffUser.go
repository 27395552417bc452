package models

type StaffUser struct {
	Username string
}
