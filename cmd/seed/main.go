package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	pginfra "github.com/oksasatya/bootcamp-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

// Seed files reference each other by natural keys (email, bootcamp name)
// because ids are assigned on insert.
type seedUser struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     entity.Role `json:"role"`
	Password string      `json:"password"`
}

type seedBootcamp struct {
	entity.Bootcamp
	Owner string `json:"owner"`
}

type seedCourse struct {
	entity.Course
	BootcampName string `json:"bootcampName"`
}

type seedReview struct {
	entity.Review
	BootcampName string `json:"bootcampName"`
	Author       string `json:"author"`
}

func main() {
	importData := flag.Bool("i", false, "import seed data")
	deleteData := flag.Bool("d", false, "delete all data")
	dir := flag.String("dir", "db/seed", "directory holding the seed JSON files")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if *importData == *deleteData {
		fmt.Fprintln(os.Stderr, "usage: seed -i | -d [-dir db/seed]")
		os.Exit(2)
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if *deleteData {
		if err := destroy(ctx, pool); err != nil {
			logger.Fatalf("delete failed: %v", err)
		}
		logger.Info("data destroyed")
		return
	}

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}
	if err := load(ctx, pool, *dir, logger); err != nil {
		logger.Fatalf("import failed: %v", err)
	}
	logger.Info("data imported")
}

func destroy(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE reviews, courses, bootcamps, users CASCADE`)
	return err
}

func readJSON(dir, name string, dst any) error {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func load(ctx context.Context, pool *pgxpool.Pool, dir string, logger *logrus.Logger) error {
	var (
		users     []seedUser
		bootcamps []seedBootcamp
		courses   []seedCourse
		reviews   []seedReview
	)
	for name, dst := range map[string]any{
		"users.json":     &users,
		"bootcamps.json": &bootcamps,
		"courses.json":   &courses,
		"reviews.json":   &reviews,
	} {
		if err := readJSON(dir, name, dst); err != nil {
			return err
		}
	}

	userRepo := pginfra.NewUserRepository(pool)
	bootcampRepo := pginfra.NewBootcampRepository(pool)
	courseRepo := pginfra.NewCourseRepository(pool)
	reviewRepo := pginfra.NewReviewRepository(pool)

	userIDs := make(map[string]string, len(users))
	for _, su := range users {
		hash, err := helpers.HashPassword(su.Password)
		if err != nil {
			return err
		}
		u := &entity.User{Name: su.Name, Email: su.Email, Role: su.Role, Password: hash, IsEmailConfirmed: true}
		if err := userRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("user %s: %w", su.Email, err)
		}
		userIDs[su.Email] = u.ID
	}

	bootcampIDs := make(map[string]string, len(bootcamps))
	owners := make(map[string]string, len(bootcamps))
	for _, sb := range bootcamps {
		b := sb.Bootcamp
		ownerID, ok := userIDs[sb.Owner]
		if !ok {
			return fmt.Errorf("bootcamp %s: unknown owner %s", b.Name, sb.Owner)
		}
		b.UserID = ownerID
		b.Slug = entity.Slugify(b.Name)
		if err := bootcampRepo.Create(ctx, &b); err != nil {
			return fmt.Errorf("bootcamp %s: %w", b.Name, err)
		}
		bootcampIDs[b.Name] = b.ID
		owners[b.Name] = ownerID
	}

	for _, sc := range courses {
		c := sc.Course
		id, ok := bootcampIDs[sc.BootcampName]
		if !ok {
			return fmt.Errorf("course %s: unknown bootcamp %s", c.Title, sc.BootcampName)
		}
		c.BootcampID, c.UserID = id, owners[sc.BootcampName]
		if err := courseRepo.Create(ctx, &c); err != nil {
			return fmt.Errorf("course %s: %w", c.Title, err)
		}
	}

	for _, sr := range reviews {
		r := sr.Review
		id, ok := bootcampIDs[sr.BootcampName]
		if !ok {
			return fmt.Errorf("review %s: unknown bootcamp %s", r.Title, sr.BootcampName)
		}
		author, ok := userIDs[sr.Author]
		if !ok {
			return fmt.Errorf("review %s: unknown author %s", r.Title, sr.Author)
		}
		r.BootcampID, r.UserID = id, author
		if err := reviewRepo.Create(ctx, &r); err != nil {
			return fmt.Errorf("review %s: %w", r.Title, err)
		}
	}

	for name, id := range bootcampIDs {
		if err := bootcampRepo.RecalculateAverageCost(ctx, id); err != nil {
			return fmt.Errorf("average cost %s: %w", name, err)
		}
		if err := bootcampRepo.RecalculateAverageRating(ctx, id); err != nil {
			return fmt.Errorf("average rating %s: %w", name, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"users":     len(users),
		"bootcamps": len(bootcamps),
		"courses":   len(courses),
		"reviews":   len(reviews),
	}).Info("seeded")
	return nil
}
