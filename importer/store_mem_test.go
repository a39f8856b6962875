package importer

import (
	"errors"
	"strings"

	"stempel/timesheet"
)

// memStore is an in-memory Store used by resolver and pipeline tests.
type memStore struct {
	customers  []timesheet.Customer
	projects   []timesheet.Project
	activities []timesheet.Activity
	users      []timesheet.User
	tags       []timesheet.Tag
	entries    []timesheet.Entry

	nextID     int64
	batchCalls int
	failSaves  bool
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

var errSaveFailed = errors.New("save failed")

func (s *memStore) FindCustomersByName(name string) ([]timesheet.Customer, error) {
	found := make([]timesheet.Customer, 0)
	for _, customer := range s.customers {
		if customer.Name == name {
			found = append(found, customer)
		}
	}
	return found, nil
}

func (s *memStore) FindCustomerByID(id int64) (*timesheet.Customer, error) {
	for _, customer := range s.customers {
		if customer.ID == id {
			found := customer
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memStore) SaveCustomer(customer *timesheet.Customer) error {
	if s.failSaves {
		return errSaveFailed
	}
	customer.ID = s.id()
	s.customers = append(s.customers, *customer)
	return nil
}

func (s *memStore) FindProjectsByName(name string) ([]timesheet.Project, error) {
	found := make([]timesheet.Project, 0)
	for _, project := range s.projects {
		if project.Name == name {
			found = append(found, project)
		}
	}
	return found, nil
}

func (s *memStore) SaveProject(project *timesheet.Project) error {
	if s.failSaves {
		return errSaveFailed
	}
	project.ID = s.id()
	s.projects = append(s.projects, *project)
	return nil
}

func (s *memStore) FindActivities(name string, projectID int64) ([]timesheet.Activity, error) {
	found := make([]timesheet.Activity, 0)
	for _, activity := range s.activities {
		if activity.Name == name && activity.ProjectID != nil && *activity.ProjectID == projectID {
			found = append(found, activity)
		}
	}
	return found, nil
}

func (s *memStore) FindGlobalActivities(name string) ([]timesheet.Activity, error) {
	found := make([]timesheet.Activity, 0)
	for _, activity := range s.activities {
		if activity.Name == name && activity.ProjectID == nil {
			found = append(found, activity)
		}
	}
	return found, nil
}

func (s *memStore) SaveActivity(activity *timesheet.Activity) error {
	if s.failSaves {
		return errSaveFailed
	}
	activity.ID = s.id()
	s.activities = append(s.activities, *activity)
	return nil
}

func (s *memStore) FindUserByUsername(username string) (*timesheet.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindUserByEmail(email string) (*timesheet.User, error) {
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memStore) SaveUser(user *timesheet.User) error {
	if s.failSaves {
		return errSaveFailed
	}
	user.ID = s.id()
	s.users = append(s.users, *user)
	return nil
}

func (s *memStore) FindTagByName(name string) (*timesheet.Tag, error) {
	for _, tag := range s.tags {
		if tag.Name == name {
			found := tag
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memStore) SaveTimesheet(entry *timesheet.Entry) error {
	if s.failSaves {
		return errSaveFailed
	}
	entry.ID = s.id()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memStore) SaveTimesheets(entries []timesheet.Entry) error {
	if s.failSaves {
		return errSaveFailed
	}
	s.batchCalls++
	for i := range entries {
		entries[i].ID = s.id()
	}
	s.entries = append(s.entries, entries...)
	return nil
}
