package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/common"
	"github.com/isdelr/devconnector-be/internal/database"
	"github.com/isdelr/devconnector-be/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoProfile          = common.E(common.ErrNotFound, "There is no profile for this user")
	ErrProfileNotFound    = common.E(common.ErrNotFound, "Profile not found")
	ErrExperienceNotFound = common.E(common.ErrNotFound, "Experience not found")
	ErrEducationNotFound  = common.E(common.ErrNotFound, "Education not found")
)

// ProfileInput is the payload for creating or updating a profile.
// Skills is a comma separated list.
type ProfileInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills" validate:"required"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// ProfileServiceProvider defines the interface for profile services.
type ProfileServiceProvider interface {
	GetMine(ctx context.Context, id auth.Identity) (models.Profile, error)
	Upsert(ctx context.Context, id auth.Identity, in ProfileInput) (models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (models.Profile, error)
	AddExperience(ctx context.Context, id auth.Identity, exp models.Experience) (models.Profile, error)
	DeleteExperience(ctx context.Context, id auth.Identity, expID string) (models.Profile, error)
	AddEducation(ctx context.Context, id auth.Identity, edu models.Education) (models.Profile, error)
	DeleteEducation(ctx context.Context, id auth.Identity, eduID string) (models.Profile, error)
	DeleteAccount(ctx context.Context, id auth.Identity) error
}

// ProfileService provides business logic for profiles and their embedded entries.
type ProfileService struct {
	db           *sql.DB
	eventService EventServiceProvider
}

// NewProfileService creates a new ProfileService.
func NewProfileService(db *sql.DB, eventService EventServiceProvider) *ProfileService {
	return &ProfileService{db: db, eventService: eventService}
}

const profileSelect = `
	SELECT p.id, p.user_id, u.name, u.avatar, p.company, p.website, p.location, p.status, p.bio,
	       p.github_username, p.skills_json, p.experience_json, p.education_json, p.social_json, p.created_at
	FROM profiles p JOIN users u ON u.id = p.user_id`

// scanProfile scans a profile joined with its owner's public fields.
func scanProfile(scanner interface{ Scan(...any) error }) (models.Profile, error) {
	var p models.Profile
	var name, avatar, company, website, location, bio, github sql.NullString
	var skills, experience, education, social sql.NullString

	err := scanner.Scan(
		&p.ID, &p.UserID, &name, &avatar, &company, &website, &location, &p.Status, &bio,
		&github, &skills, &experience, &education, &social, &p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	p.User = &models.UserSummary{ID: p.UserID, Name: name.String, Avatar: avatar.String}
	p.Company = company.String
	p.Website = website.String
	p.Location = location.String
	p.Bio = bio.String
	p.GitHubUsername = github.String
	p.SkillsJSON = skills.String
	p.ExperienceJSON = experience.String
	p.EducationJSON = education.String
	p.SocialJSON = social.String

	if err := p.PrepareForAPI(); err != nil {
		return p, fmt.Errorf("decode profile %s: %w", p.ID, err)
	}
	return p, nil
}

func (s *ProfileService) findByUser(ctx context.Context, db database.DBTX, userID string) (models.Profile, error) {
	return scanProfile(db.QueryRowContext(ctx, profileSelect+" WHERE p.user_id = ?", userID))
}

// GetMine returns the profile of the authenticated user.
func (s *ProfileService) GetMine(ctx context.Context, id auth.Identity) (models.Profile, error) {
	p, err := s.findByUser(ctx, s.db, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, ErrNoProfile
		}
		return models.Profile{}, err
	}
	return p, nil
}

// GetByUserID returns the public profile of any user.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (models.Profile, error) {
	p, err := s.findByUser(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, ErrProfileNotFound
		}
		return models.Profile{}, err
	}
	return p, nil
}

// List returns all profiles.
func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, profileSelect+" ORDER BY p.created_at ASC, p.rowid ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Upsert creates the caller's profile or updates it. On update, empty scalar
// fields keep their stored value while skills and social links are replaced.
func (s *ProfileService) Upsert(ctx context.Context, id auth.Identity, in ProfileInput) (models.Profile, error) {
	p, err := s.findByUser(ctx, s.db, id.String())
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, err
	}

	if !exists {
		p = models.Profile{
			ID:        uuid.New().String(),
			UserID:    id.String(),
			CreatedAt: time.Now().UTC(),
		}
	} else if !auth.Owns(&p, id) {
		return models.Profile{}, common.E(common.ErrForbidden, "User not authorized")
	}

	setIfPresent(&p.Company, in.Company)
	setIfPresent(&p.Website, in.Website)
	setIfPresent(&p.Location, in.Location)
	setIfPresent(&p.Bio, in.Bio)
	setIfPresent(&p.Status, in.Status)
	setIfPresent(&p.GitHubUsername, in.GitHubUsername)
	if in.Skills != "" {
		p.Skills = splitSkills(in.Skills)
	}
	p.Social = models.Social{
		YouTube:   strings.TrimSpace(in.YouTube),
		Twitter:   strings.TrimSpace(in.Twitter),
		Facebook:  strings.TrimSpace(in.Facebook),
		LinkedIn:  strings.TrimSpace(in.LinkedIn),
		Instagram: strings.TrimSpace(in.Instagram),
	}
	p.PrepareForSave()

	if exists {
		err = s.save(ctx, &p)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO profiles (id, user_id, company, website, location, status, bio, github_username,
			                      skills_json, experience_json, education_json, social_json, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.UserID, p.Company, p.Website, p.Location, p.Status, p.Bio, p.GitHubUsername,
			p.SkillsJSON, p.ExperienceJSON, p.EducationJSON, p.SocialJSON, p.CreatedAt)
	}
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return models.Profile{}, common.E(common.ErrNotFound, "User not found")
		}
		return models.Profile{}, fmt.Errorf("save profile: %w", err)
	}

	if !exists {
		s.recordEvent(ctx, id, "profile.create", "Profile created")
	}
	return s.findByUser(ctx, s.db, id.String())
}

// save writes the whole profile document back. Concurrent writers race and
// the last write wins.
func (s *ProfileService) save(ctx context.Context, p *models.Profile) error {
	p.PrepareForSave()
	_, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET company = ?, website = ?, location = ?, status = ?, bio = ?, github_username = ?,
		                    skills_json = ?, experience_json = ?, education_json = ?, social_json = ?
		WHERE id = ?`,
		p.Company, p.Website, p.Location, p.Status, p.Bio, p.GitHubUsername,
		p.SkillsJSON, p.ExperienceJSON, p.EducationJSON, p.SocialJSON, p.ID)
	return err
}

// mutateOwn loads the caller's profile, checks ownership, applies fn and persists the result.
func (s *ProfileService) mutateOwn(ctx context.Context, id auth.Identity, fn func(p *models.Profile) error) (models.Profile, error) {
	p, err := s.GetMine(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	if !auth.Owns(&p, id) {
		return models.Profile{}, common.E(common.ErrForbidden, "User not authorized")
	}
	if err := fn(&p); err != nil {
		return models.Profile{}, err
	}
	if err := s.save(ctx, &p); err != nil {
		return models.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}

// AddExperience prepends an experience entry to the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, id auth.Identity, exp models.Experience) (models.Profile, error) {
	exp.ID = uuid.New().String()
	return s.mutateOwn(ctx, id, func(p *models.Profile) error {
		p.Experience = append([]models.Experience{exp}, p.Experience...)
		return nil
	})
}

// DeleteExperience removes one experience entry from the caller's profile.
func (s *ProfileService) DeleteExperience(ctx context.Context, id auth.Identity, expID string) (models.Profile, error) {
	return s.mutateOwn(ctx, id, func(p *models.Profile) error {
		kept := make([]models.Experience, 0, len(p.Experience))
		for _, e := range p.Experience {
			if e.ID != expID {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(p.Experience) {
			return ErrExperienceNotFound
		}
		p.Experience = kept
		return nil
	})
}

// AddEducation prepends an education entry to the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, id auth.Identity, edu models.Education) (models.Profile, error) {
	edu.ID = uuid.New().String()
	return s.mutateOwn(ctx, id, func(p *models.Profile) error {
		p.Education = append([]models.Education{edu}, p.Education...)
		return nil
	})
}

// DeleteEducation removes one education entry from the caller's profile.
func (s *ProfileService) DeleteEducation(ctx context.Context, id auth.Identity, eduID string) (models.Profile, error) {
	return s.mutateOwn(ctx, id, func(p *models.Profile) error {
		kept := make([]models.Education, 0, len(p.Education))
		for _, e := range p.Education {
			if e.ID != eduID {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(p.Education) {
			return ErrEducationNotFound
		}
		p.Education = kept
		return nil
	})
}

// DeleteAccount removes the caller's posts, then the profile, then the account
// itself. The three steps share one transaction: if any fails nothing is removed.
func (s *ProfileService) DeleteAccount(ctx context.Context, id auth.Identity) error {
	userID := id.String()
	var postsRemoved int64

	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE user_id = ?", userID)
		if err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}
		postsRemoved, _ = res.RowsAffected()

		if _, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}

		res, err = tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return common.E(common.ErrNotFound, "User not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("user_id", userID).Int64("posts_removed", postsRemoved).Msg("Account deleted")
	if err := s.eventService.CreateEvent(ctx, "profile.delete", "info",
		fmt.Sprintf("Account %s deleted with %d posts", userID, postsRemoved), nil); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Failed to record account deletion event")
	}
	return nil
}

func (s *ProfileService) recordEvent(ctx context.Context, id auth.Identity, eventType, message string) {
	userID := id.String()
	if err := s.eventService.CreateEvent(ctx, eventType, "info", message, &userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("event_type", eventType).Msg("Failed to record event")
	}
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func splitSkills(csv string) []string {
	skills := []string{}
	for _, skill := range strings.Split(csv, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
