package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/emre/sinavmarket/internal/app/models"
	appRepos "github.com/emre/sinavmarket/internal/app/repositories"
	"github.com/emre/sinavmarket/internal/pkg/apperrors"
	"github.com/emre/sinavmarket/internal/pkg/auth"
)

const defaultAdminEmail = "admin@sinavmarket.com"

// CreateDefaultData creates the default admin user and the base store
// categories if they don't exist. Errors are collected rather than aborting,
// so a half-seeded database still comes up.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	categoryRepo := appRepos.NewCategoryRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (Categories/Admin)...")
	var finalErr error

	// --- Base Categories --- //
	defaultCategories := []appModels.Category{
		{Name: "LGS", Slug: "lgs", DisplayOrder: 1},
		{Name: "YKS", Slug: "yks", DisplayOrder: 2},
		{Name: "KPSS", Slug: "kpss", DisplayOrder: 3},
	}

	for i := range defaultCategories {
		category := defaultCategories[i]
		err := categoryRepo.Create(ctx, &category)
		if err != nil && !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Str("slug", category.Slug).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Default Admin User --- //
	exists, err := userRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		lgr.Info().Msg("Creating default admin user...")

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), auth.BcryptCost)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				Email:     defaultAdminEmail,
				Password:  string(hashedPassword),
				FirstName: "Sistem",
				LastName:  "Yöneticisi",
				Role:      appModels.RoleAdmin,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}

			adminID, err := userRepo.Create(ctx, admin)
			if err != nil {
				lgr.Error().Err(err).Msg("Error creating admin user")
				finalErr = errors.Join(finalErr, err)
			} else {
				lgr.Info().Str("adminID", adminID.String()).Msg("Default admin user created successfully")
			}
		}
	} else {
		lgr.Info().Msg("Admin user already exists, skipping creation")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
