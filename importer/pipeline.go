package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stempel/duration"
	"stempel/timesheet"
)

const (
	// TimezoneServer interprets all timestamps in the server's local zone.
	TimezoneServer = "server"
	// TimezoneUser interprets timestamps in each resolved user's zone.
	TimezoneUser = "user"

	// ScopeProject ties newly created activities to the row's project;
	// ScopeGlobal creates them unscoped.
	ScopeProject = "project"
	ScopeGlobal  = "global"
)

// batchSize is the number of entries queued before a batched flush.
const batchSize = 100

// Options configures one import run.
type Options struct {
	// Timezone is "server", "user" or an IANA zone name.
	Timezone string
	// FallbackCustomer is the id, name or %s name template of the customer
	// used for rows without a resolvable customer.
	FallbackCustomer string
	// ActivityScope is "project" or "global".
	ActivityScope string
	// DefaultBegin is the HH:MM clock used when a row has neither From nor To.
	DefaultBegin string
	// CommentTemplate is applied to all auto-created customers, projects and
	// activities; a %s placeholder receives the run timestamp.
	CommentTemplate string
	CreateUsers     bool
	IgnoreErrors    bool
	Batch           bool
	// Domain is the email domain for synthesized user emails.
	Domain string
	// Password is the default password for created users.
	Password string
	// DefaultTimezone and DefaultCountry are applied to created customers
	// and users.
	DefaultTimezone string
	DefaultCountry  string
}

// Result summarizes one import run.
type Result struct {
	Stats
	Imported    int
	SkippedRows int
	RowErrors   []RowError
}

// Pipeline runs the two-phase import: a validation pass that touches nothing,
// then a resolution and persistence pass over the surviving rows. Rows are
// processed strictly in input order; any error during the second pass aborts
// the run without rolling back earlier writes.
type Pipeline struct {
	store Store
	opts  Options
	ctx   *ResolutionContext
}

func NewPipeline(store Store, opts Options) *Pipeline {
	return &Pipeline{
		store: store,
		opts:  opts,
		ctx:   NewResolutionContext(store, opts),
	}
}

func (p *Pipeline) Run(records []Record) (*Result, error) {
	result := &Result{}

	valid := p.validate(records, result)
	if len(result.RowErrors) > 0 && !p.opts.IgnoreErrors {
		return result, ErrValidationFailed
	}
	result.SkippedRows = len(result.RowErrors)

	if err := p.importRecords(valid, result); err != nil {
		result.Stats = p.ctx.Stats()
		return result, err
	}

	result.Stats = p.ctx.Stats()
	return result, nil
}

// validate runs the first pass: required-field checks and, unless users may
// be created, a read-only user lookup. No store mutation happens here.
func (p *Pipeline) validate(records []Record, result *Result) []ImportRecord {
	valid := make([]ImportRecord, 0, len(records))

	for _, raw := range records {
		record := NewImportRecord(raw)

		if missing := requiredFieldErrors(record); len(missing) > 0 {
			result.RowErrors = append(result.RowErrors, RowError{Row: record.RowNumber, Fields: missing})
			continue
		}

		if !p.opts.CreateUsers {
			if _, err := p.ctx.ResolveUser(record.User, false); err != nil {
				result.RowErrors = append(result.RowErrors, RowError{Row: record.RowNumber, Err: err})
				continue
			}
		}

		valid = append(valid, record)
	}

	return valid
}

func (p *Pipeline) importRecords(records []ImportRecord, result *Result) error {
	batch := make([]timesheet.Entry, 0, batchSize)

	for _, record := range records {
		entry, err := p.buildEntry(record)
		if err != nil {
			return fmt.Errorf("row %d: %w", record.RowNumber, err)
		}

		if p.opts.Batch {
			batch = append(batch, *entry)
			if len(batch) >= batchSize {
				if err := p.store.SaveTimesheets(batch); err != nil {
					return fmt.Errorf("row %d: persist batch: %w", record.RowNumber, err)
				}
				result.Imported += len(batch)
				batch = batch[:0]
			}
			continue
		}

		if err := p.store.SaveTimesheet(entry); err != nil {
			return fmt.Errorf("row %d: persist entry: %w", record.RowNumber, err)
		}
		result.Imported++
	}

	if len(batch) > 0 {
		if err := p.store.SaveTimesheets(batch); err != nil {
			return fmt.Errorf("persist final batch: %w", err)
		}
		result.Imported += len(batch)
	}

	return nil
}

func (p *Pipeline) buildEntry(record ImportRecord) (*timesheet.Entry, error) {
	customer, err := p.ctx.ResolveCustomer(record.Customer)
	if err != nil {
		return nil, err
	}

	project, err := p.ctx.ResolveProject(record.Project, customer)
	if err != nil {
		return nil, err
	}

	activity, err := p.ctx.ResolveActivity(record.Activity, project)
	if err != nil {
		return nil, err
	}

	user, err := p.ctx.ResolveUser(record.User, p.opts.CreateUsers)
	if err != nil {
		return nil, err
	}

	tags, err := p.ctx.ResolveTags(record.Tags)
	if err != nil {
		return nil, err
	}

	durationSeconds := 0
	if record.Duration != "" {
		durationSeconds, err = duration.Parse(record.Duration, duration.Detect(record.Duration))
		if err != nil {
			return nil, err
		}
	}

	location, err := p.location(user)
	if err != nil {
		return nil, err
	}

	date, err := parseDate(record.Date, location)
	if err != nil {
		return nil, err
	}

	begin, end, err := resolveTimeWindow(date, record.From, record.To, durationSeconds, p.opts.DefaultBegin, location)
	if err != nil {
		return nil, err
	}
	if end.Before(begin) {
		return nil, fmt.Errorf("end %v is before begin %v", end, begin)
	}

	entry := &timesheet.Entry{
		UserID:       user.ID,
		ProjectID:    project.ID,
		ActivityID:   activity.ID,
		Begin:        begin,
		End:          end,
		Duration:     int(end.Sub(begin).Seconds()),
		Description:  record.Description,
		Exported:     parseExported(record.Exported),
		Tags:         tags,
		Username:     user.Username,
		CustomerName: customer.Name,
		ProjectName:  project.Name,
		ActivityName: activity.Name,
	}

	if record.Rate != "" {
		rate, err := parseRate(record.Rate)
		if err != nil {
			return nil, fmt.Errorf("rate: %w", err)
		}
		entry.Rate = &rate
	}
	if record.HourlyRate != "" {
		rate, err := parseRate(record.HourlyRate)
		if err != nil {
			return nil, fmt.Errorf("hourly rate: %w", err)
		}
		entry.SetHourlyRate(rate)
	}
	if record.FixedRate != "" {
		rate, err := parseRate(record.FixedRate)
		if err != nil {
			return nil, fmt.Errorf("fixed rate: %w", err)
		}
		entry.SetFixedRate(rate)
	}

	return entry, nil
}

func (p *Pipeline) location(user *timesheet.User) (*time.Location, error) {
	switch p.opts.Timezone {
	case "", TimezoneServer:
		return time.Local, nil
	case TimezoneUser:
		if user.Timezone == "" {
			return time.Local, nil
		}
		location, err := time.LoadLocation(user.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load user timezone %q: %w", user.Timezone, err)
		}
		return location, nil
	default:
		location, err := time.LoadLocation(p.opts.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", p.opts.Timezone, err)
		}
		return location, nil
	}
}

func parseRate(value string) (float64, error) {
	rate, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse rate %q: %w", value, err)
	}
	return rate, nil
}

func parseExported(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
