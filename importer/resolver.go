package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"stempel/timesheet"
)

// Store is the persistence surface the import pipeline needs. Finders return
// nil (or an empty slice) when nothing matches; errors are reserved for
// backing-store failures.
type Store interface {
	FindCustomersByName(name string) ([]timesheet.Customer, error)
	FindCustomerByID(id int64) (*timesheet.Customer, error)
	SaveCustomer(customer *timesheet.Customer) error

	FindProjectsByName(name string) ([]timesheet.Project, error)
	SaveProject(project *timesheet.Project) error

	FindActivities(name string, projectID int64) ([]timesheet.Activity, error)
	FindGlobalActivities(name string) ([]timesheet.Activity, error)
	SaveActivity(activity *timesheet.Activity) error

	FindUserByUsername(username string) (*timesheet.User, error)
	FindUserByEmail(email string) (*timesheet.User, error)
	SaveUser(user *timesheet.User) error

	FindTagByName(name string) (*timesheet.Tag, error)

	SaveTimesheet(entry *timesheet.Entry) error
	SaveTimesheets(entries []timesheet.Entry) error
}

// Stats counts the entities created during one run.
type Stats struct {
	CreatedUsers      int
	CreatedCustomers  int
	CreatedProjects   int
	CreatedActivities int
}

// ResolutionContext resolves free-text references against the store and
// creates missing entities on demand. Caches are keyed by the exact input
// text and live for one run, so two rows naming the same customer, project
// or user always resolve to the same entity. The context is not safe for
// concurrent use.
type ResolutionContext struct {
	store   Store
	opts    Options
	runTime time.Time

	customers map[string]*timesheet.Customer
	projects  map[string]*timesheet.Project
	users     map[string]*timesheet.User

	// fallbackCustomer is created at most once per run and reused for every
	// row without a resolvable customer name.
	fallbackCustomer *timesheet.Customer

	stats Stats
}

func NewResolutionContext(store Store, opts Options) *ResolutionContext {
	return &ResolutionContext{
		store:     store,
		opts:      opts,
		runTime:   time.Now(),
		customers: make(map[string]*timesheet.Customer),
		projects:  make(map[string]*timesheet.Project),
		users:     make(map[string]*timesheet.User),
	}
}

func (c *ResolutionContext) Stats() Stats {
	return c.stats
}

// ResolveUser looks a user up by username, then by email. When the user does
// not exist and allowCreate is set, a new user is created with a synthesized
// email and the hashed default password.
func (c *ResolutionContext) ResolveUser(identifier string, allowCreate bool) (*timesheet.User, error) {
	if identifier == "" {
		return nil, fmt.Errorf("%w: user column is empty", ErrUnknownUser)
	}
	if user, ok := c.users[identifier]; ok {
		return user, nil
	}

	user, err := c.store.FindUserByUsername(identifier)
	if err != nil {
		return nil, fmt.Errorf("find user by username %q: %w", identifier, err)
	}
	if user == nil {
		user, err = c.store.FindUserByEmail(identifier)
		if err != nil {
			return nil, fmt.Errorf("find user by email %q: %w", identifier, err)
		}
	}

	if user == nil {
		if !allowCreate {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUser, identifier)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(c.opts.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash default password: %w", err)
		}

		user = &timesheet.User{
			Username: identifier,
			Email:    synthesizeEmail(identifier, c.opts.Domain),
			Password: string(hashed),
			Timezone: c.opts.DefaultTimezone,
		}
		if err := c.store.SaveUser(user); err != nil {
			return nil, fmt.Errorf("save user %q: %w", identifier, err)
		}
		c.stats.CreatedUsers++
	}

	c.users[identifier] = user
	return user, nil
}

// ResolveCustomer looks a customer up by exact name. A row without a
// resolvable customer falls back to the run-wide fallback customer, which is
// materialized at most once: by id when the configured fallback is numeric,
// by name otherwise, and created from the configured template as a last
// resort.
func (c *ResolutionContext) ResolveCustomer(name string) (*timesheet.Customer, error) {
	if name != "" {
		if customer, ok := c.customers[name]; ok {
			return customer, nil
		}

		candidates, err := c.store.FindCustomersByName(name)
		if err != nil {
			return nil, fmt.Errorf("find customer %q: %w", name, err)
		}
		if len(candidates) > 1 {
			return nil, fmt.Errorf("%w: %q matches %d customers", ErrAmbiguousCustomer, name, len(candidates))
		}
		if len(candidates) == 1 {
			customer := &candidates[0]
			c.customers[name] = customer
			return customer, nil
		}
	}

	return c.resolveFallbackCustomer()
}

func (c *ResolutionContext) resolveFallbackCustomer() (*timesheet.Customer, error) {
	if c.fallbackCustomer != nil {
		return c.fallbackCustomer, nil
	}

	fallback := strings.TrimSpace(c.opts.FallbackCustomer)
	if fallback != "" {
		if id, err := strconv.ParseInt(fallback, 10, 64); err == nil {
			customer, err := c.store.FindCustomerByID(id)
			if err != nil {
				return nil, fmt.Errorf("find customer by id %d: %w", id, err)
			}
			if customer != nil {
				c.fallbackCustomer = customer
				return customer, nil
			}
		} else {
			candidates, err := c.store.FindCustomersByName(fallback)
			if err != nil {
				return nil, fmt.Errorf("find customer %q: %w", fallback, err)
			}
			if len(candidates) > 1 {
				return nil, fmt.Errorf("%w: %q matches %d customers", ErrAmbiguousCustomer, fallback, len(candidates))
			}
			if len(candidates) == 1 {
				c.fallbackCustomer = &candidates[0]
				return c.fallbackCustomer, nil
			}
		}
	}

	template := fallback
	if template == "" {
		template = "Imported %s"
	}

	customer := &timesheet.Customer{
		Name:     renderTemplate(template, c.runTime),
		Comment:  renderTemplate(c.opts.CommentTemplate, c.runTime),
		Timezone: c.opts.DefaultTimezone,
		Country:  c.opts.DefaultCountry,
	}
	if err := c.store.SaveCustomer(customer); err != nil {
		return nil, fmt.Errorf("save customer %q: %w", customer.Name, err)
	}
	c.stats.CreatedCustomers++
	c.fallbackCustomer = customer
	return customer, nil
}

// ResolveProject finds a project by name. With several candidates, the one
// whose customer name matches the resolved customer (case-insensitive) wins;
// a single candidate belonging to another customer counts as not found. A
// missing project is created under the resolved customer.
func (c *ResolutionContext) ResolveProject(name string, customer *timesheet.Customer) (*timesheet.Project, error) {
	if project, ok := c.projects[name]; ok {
		return project, nil
	}

	candidates, err := c.store.FindProjectsByName(name)
	if err != nil {
		return nil, fmt.Errorf("find project %q: %w", name, err)
	}

	var project *timesheet.Project
	switch {
	case len(candidates) == 1:
		if strings.EqualFold(candidates[0].CustomerName, customer.Name) {
			project = &candidates[0]
		}
	case len(candidates) > 1:
		matching := make([]timesheet.Project, 0, len(candidates))
		for _, candidate := range candidates {
			if strings.EqualFold(candidate.CustomerName, customer.Name) {
				matching = append(matching, candidate)
			}
		}
		if len(matching) > 1 {
			return nil, fmt.Errorf("%w: %q matches %d projects of customer %q", ErrAmbiguousProject, name, len(matching), customer.Name)
		}
		if len(matching) == 1 {
			project = &matching[0]
		}
	}

	if project == nil {
		project = &timesheet.Project{
			CustomerID:   customer.ID,
			CustomerName: customer.Name,
			Name:         name,
			Comment:      renderTemplate(c.opts.CommentTemplate, c.runTime),
		}
		if err := c.store.SaveProject(project); err != nil {
			return nil, fmt.Errorf("save project %q: %w", name, err)
		}
		c.stats.CreatedProjects++
	}

	c.projects[name] = project
	return project, nil
}

// ResolveActivity finds an activity scoped to the project, falls back to a
// global activity of the same name, and creates one when neither exists. New
// activities are project-scoped only when the configured activity scope is
// "project".
func (c *ResolutionContext) ResolveActivity(name string, project *timesheet.Project) (*timesheet.Activity, error) {
	activities, err := c.store.FindActivities(name, project.ID)
	if err != nil {
		return nil, fmt.Errorf("find activity %q: %w", name, err)
	}
	if len(activities) > 0 {
		return &activities[0], nil
	}

	global, err := c.store.FindGlobalActivities(name)
	if err != nil {
		return nil, fmt.Errorf("find global activity %q: %w", name, err)
	}
	if len(global) > 0 {
		return &global[0], nil
	}

	activity := &timesheet.Activity{
		Name:    name,
		Comment: renderTemplate(c.opts.CommentTemplate, c.runTime),
	}
	if c.opts.ActivityScope == ScopeProject {
		projectID := project.ID
		activity.ProjectID = &projectID
	}
	if err := c.store.SaveActivity(activity); err != nil {
		return nil, fmt.Errorf("save activity %q: %w", name, err)
	}
	c.stats.CreatedActivities++
	return activity, nil
}

// ResolveTags splits a comma-separated tag list and looks each token up by
// name, constructing an unsaved tag for unknown names. Tags are deliberately
// not cached across rows; the store's unique tag name index keeps repeated
// names from piling up.
func (c *ResolutionContext) ResolveTags(csvList string) ([]timesheet.Tag, error) {
	if strings.TrimSpace(csvList) == "" {
		return nil, nil
	}

	tags := make([]timesheet.Tag, 0, 4)
	for _, token := range strings.Split(csvList, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		tag, err := c.store.FindTagByName(token)
		if err != nil {
			return nil, fmt.Errorf("find tag %q: %w", token, err)
		}
		if tag != nil {
			tags = append(tags, *tag)
		} else {
			tags = append(tags, timesheet.Tag{Name: token})
		}
	}
	return tags, nil
}

// synthesizeEmail builds an email for a created user: the identifier
// lower-cased with non-printable characters stripped, at the configured
// domain. Identifiers already containing "@" are used as-is.
func synthesizeEmail(identifier, domain string) string {
	if strings.Contains(identifier, "@") {
		return identifier
	}

	local := strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, strings.ToLower(identifier))

	return local + "@" + domain
}

// renderTemplate substitutes a %s placeholder with the run timestamp.
func renderTemplate(template string, runTime time.Time) string {
	if !strings.Contains(template, "%s") {
		return template
	}
	return fmt.Sprintf(template, runTime.Format("2006-01-02 15:04"))
}
