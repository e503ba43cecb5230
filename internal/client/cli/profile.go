package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/campushire/internal/client/services"
)

// Profile prints the user's profile.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.profileService.Get(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load profile: %s\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Name:      %s\n", p.FullName)
	fmt.Fprintf(a.out, "Branch:    %s\n", p.Branch)
	fmt.Fprintf(a.out, "CGPA:      %s\n", formatCGPA(p.CGPA))
	fmt.Fprintf(a.out, "Role:      %s\n", p.PreferredRole)
	fmt.Fprintf(a.out, "Location:  %s\n", p.LocationPreference)
	fmt.Fprintf(a.out, "Skills:    %s\n", strings.Join(p.Skills, ", "))
	if p.ResumeURL != "" {
		fmt.Fprintf(a.out, "Resume:    %s\n", p.ResumeURL)
	} else {
		fmt.Fprintln(a.out, "Resume:    not uploaded")
	}
	return nil
}

func formatCGPA(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EditProfile walks through the profile fields. An empty answer keeps the
// current value.
func (a *App) EditProfile(ctx context.Context) error {
	p, err := a.profileService.Get(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load profile: %s\n", err)
		return err
	}

	fields := []struct {
		prompt string
		value  *string
	}{
		{"Full name", &p.FullName},
		{"Branch", &p.Branch},
		{"Preferred role", &p.PreferredRole},
		{"Location preference", &p.LocationPreference},
	}
	for _, f := range fields {
		v, err := GetTextWithDefault(a.reader, f.prompt, *f.value, a.out)
		if err != nil {
			return err
		}
		*f.value = v
	}

	cgpa, err := GetTextWithDefault(a.reader, "CGPA", formatCGPA(p.CGPA), a.out)
	if err != nil {
		return err
	}
	p.CGPA = services.ParseCGPA(cgpa)

	skills, err := GetTextWithDefault(a.reader, "Skills (comma separated)", strings.Join(p.Skills, ", "), a.out)
	if err != nil {
		return err
	}
	p.Skills = services.ParseSkills(skills)

	if err := a.profileService.Save(ctx, p); err != nil {
		fmt.Fprintf(a.out, "Could not save profile: %s\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Profile saved")
	return nil
}

// Upload sends the PDF at path as the user's resume, printing progress as
// it goes.
func (a *App) Upload(ctx context.Context, path string) error {
	events, err := a.profileService.UploadResume(ctx, path)
	if err != nil {
		fmt.Fprintf(a.out, "Could not upload resume: %s\n", err)
		return err
	}

	for ev := range events {
		if !ev.Done {
			fmt.Fprintf(a.out, "\rUploading %s", progressBar(ev.Progress))
			continue
		}
		if ev.Err != nil {
			fmt.Fprintf(a.out, "\nUpload failed: %s\n", ev.Err)
			return ev.Err
		}
		fmt.Fprintf(a.out, "\nResume uploaded: %s\n", ev.URL)
		return nil
	}
	fmt.Fprintln(a.out, "\nUpload cancelled")
	return ctx.Err()
}

// RemoveResume deletes the uploaded resume.
func (a *App) RemoveResume(ctx context.Context) error {
	if err := a.profileService.RemoveResume(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not remove resume: %s\n", err)
		return err
	}
	fmt.Fprintln(a.out, "Resume removed")
	return nil
}
