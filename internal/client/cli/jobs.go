package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/campushire/internal/client/models"
	"github.com/dmitrijs2005/campushire/internal/client/services"
)

var errJobNotFound = errors.New("job not found")

// Jobs lists postings matching query, marking the ones already applied to
// or saved.
func (a *App) Jobs(ctx context.Context, query string) error {
	jobs, err := a.jobService.Search(ctx, query)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load jobs: %s\n", err)
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(a.out, "No jobs found")
		return nil
	}

	applied, err := a.jobService.AppliedCompanies(ctx)
	if err != nil {
		a.logger.Warn(ctx, "load applied companies", "error", err)
	}
	savedIDs, err := a.jobService.SavedIDs(ctx)
	if err != nil {
		a.logger.Warn(ctx, "load saved jobs", "error", err)
	}
	saved := make(map[string]struct{}, len(savedIDs))
	for _, id := range savedIDs {
		saved[id] = struct{}{}
	}

	for _, j := range jobs {
		var marks []string
		if j.Company != nil {
			if _, ok := applied[*j.Company]; ok {
				marks = append(marks, "applied")
			}
		}
		if _, ok := saved[j.ID]; ok {
			marks = append(marks, "saved")
		}
		fmt.Fprintln(a.out, formatJobLine(j, marks))
	}
	return nil
}

func (a *App) lookupJob(ctx context.Context, id string) (models.JobPosting, error) {
	job, ok, err := a.jobService.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load job: %s\n", err)
		return models.JobPosting{}, err
	}
	if !ok {
		fmt.Fprintf(a.out, "No job with id %s\n", id)
		return models.JobPosting{}, errJobNotFound
	}
	return job, nil
}

// Show prints the full posting.
func (a *App) Show(ctx context.Context, id string) error {
	job, err := a.lookupJob(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "[%s]\n", job.ID)
	if job.IsUrgent != nil && *job.IsUrgent {
		fmt.Fprintln(a.out, "URGENT")
	}
	if job.PostedDate != nil {
		fmt.Fprintf(a.out, "Posted: %s\n", job.PostedDate.Local().Format("Jan 2, 2006"))
	}
	fmt.Fprintln(a.out, services.ShareText(job))
	return nil
}

// Apply records an application to the posting unless one exists already.
func (a *App) Apply(ctx context.Context, id string) error {
	job, err := a.lookupJob(ctx, id)
	if err != nil {
		return err
	}
	company := models.StringOr(job.Company, "-")

	applied, err := a.jobService.HasApplied(ctx, job)
	if err != nil {
		fmt.Fprintf(a.out, "Could not check applications: %s\n", err)
		return err
	}
	if applied {
		fmt.Fprintf(a.out, "Already applied to %s\n", company)
		return nil
	}

	app, err := a.jobService.Apply(ctx, job)
	if err != nil {
		fmt.Fprintf(a.out, "Could not apply: %s\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Applied to %s on %s\n", app.CompanyName, app.AppliedDate)
	return nil
}

// Save toggles the saved mark of the posting.
func (a *App) Save(ctx context.Context, id string) error {
	job, err := a.lookupJob(ctx, id)
	if err != nil {
		return err
	}
	saved, err := a.jobService.ToggleSave(ctx, job)
	if err != nil {
		fmt.Fprintf(a.out, "Could not update saved jobs: %s\n", err)
		return err
	}
	if saved {
		fmt.Fprintf(a.out, "Saved %s\n", job.Title)
	} else {
		fmt.Fprintf(a.out, "Removed %s from saved jobs\n", job.Title)
	}
	return nil
}

// Saved lists the saved postings that still exist.
func (a *App) Saved(ctx context.Context) error {
	jobs, err := a.jobService.SavedJobs(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load saved jobs: %s\n", err)
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(a.out, "No saved jobs")
		return nil
	}
	for _, j := range jobs {
		fmt.Fprintln(a.out, formatJobLine(j, nil))
	}
	return nil
}

func formatJobLine(j models.JobPosting, marks []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s at %s", j.ID, j.Title, models.StringOr(j.Company, "-"))
	if j.Location != nil {
		fmt.Fprintf(&b, ", %s", *j.Location)
	}
	if j.IsUrgent != nil && *j.IsUrgent {
		b.WriteString(" !urgent")
	}
	if len(marks) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(marks, ", "))
	}
	return b.String()
}
