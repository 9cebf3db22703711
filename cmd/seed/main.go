// Command seed fills the database with demo data: campuses, roles, users,
// open days, registrations and comments. Meant for local development and
// load testing, never for production.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"jpo/internal/config"
	"jpo/internal/database"
	"jpo/internal/logger"
)

var (
	clearFirst = flag.Bool("clear", false, "delete existing data before seeding")
	dryRun     = flag.Bool("dry-run", false, "print the plan without writing")
	users      = flag.Int("users", 200, "number of users to create")
)

var campuses = []struct {
	Name string
	City string
}{
	{"Campus Saint-Michel", "Paris"},
	{"Campus Confluence", "Lyon"},
	{"Campus Vieux-Port", "Marseille"},
	{"Campus Capitole", "Toulouse"},
	{"Campus Atlantique", "Nantes"},
}

var roles = []string{"admin", "moderator", "member"}

var firstNames = []string{
	"Emma", "Lucas", "Chloé", "Hugo", "Léa", "Louis", "Manon", "Jules",
	"Camille", "Arthur", "Inès", "Gabriel", "Jade", "Raphaël", "Louise", "Adam",
}

var lastNames = []string{
	"Martin", "Bernard", "Thomas", "Petit", "Robert", "Richard", "Durand",
	"Dubois", "Moreau", "Laurent", "Simon", "Michel", "Lefebvre", "Leroy",
}

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")
	log := logger.Get()

	if *dryRun {
		fmt.Printf("would seed %d campuses, %d roles, %d users, %d open days\n",
			len(campuses), len(roles), *users, len(campuses)*3)
		return
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *clearFirst {
		log.Info("Clearing existing data")
		for _, table := range []string{"comment", "registration", "open_day", "users", "role", "campus"} {
			if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				logger.Fatal("Failed to clear table", "table", table, "error", err)
			}
		}
	}

	if err := seed(ctx, db); err != nil {
		logger.Fatal("Seeding failed", "error", err)
	}

	log.Info("Seeding complete")
}

func seed(ctx context.Context, db *database.DB) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	campusIDs := make([]int64, 0, len(campuses))
	for _, c := range campuses {
		var id int64
		err := db.QueryRowContext(ctx,
			`INSERT INTO campus (name, city) VALUES ($1, $2) RETURNING campus_id`,
			c.Name, c.City).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert campus: %w", err)
		}
		campusIDs = append(campusIDs, id)
	}

	roleIDs := make([]int64, 0, len(roles))
	for _, name := range roles {
		var id int64
		err := db.QueryRowContext(ctx,
			`INSERT INTO role (role_name) VALUES ($1) RETURNING role_id`,
			name).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert role: %w", err)
		}
		roleIDs = append(roleIDs, id)
	}

	userTypes := []string{"student", "parent", "marketing_member"}
	userIDs := make([]int64, 0, *users)
	for i := 0; i < *users; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		email := fmt.Sprintf("%s.%s%d@example.fr", first, last, i)

		var id int64
		err := db.QueryRowContext(ctx,
			`INSERT INTO users (first_name, last_name, email, user_type, role_id)
			 VALUES ($1, $2, $3, $4, $5) RETURNING user_id`,
			first, last, email, userTypes[rng.Intn(len(userTypes))],
			roleIDs[rng.Intn(len(roleIDs))]).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	var jpoIDs []int64
	capacities := make(map[int64]int)
	for _, campusID := range campusIDs {
		for i := 0; i < 3; i++ {
			date := time.Now().AddDate(0, rng.Intn(6)+1, rng.Intn(28))
			capacity := 20 + rng.Intn(80)

			var id int64
			err := db.QueryRowContext(ctx,
				`INSERT INTO open_day (name, date, max_capacity, campus_id)
				 VALUES ($1, $2, $3, $4) RETURNING jpo_id`,
				fmt.Sprintf("Journée Portes Ouvertes %s", date.Format("January 2006")),
				date, capacity, campusID).Scan(&id)
			if err != nil {
				return fmt.Errorf("insert open day: %w", err)
			}
			jpoIDs = append(jpoIDs, id)
			capacities[id] = capacity
		}
	}

	// Fill each open day up to roughly 60% so capacity rejections stay
	// reachable in demos.
	for _, jpoID := range jpoIDs {
		target := capacities[jpoID] * 6 / 10
		perm := rng.Perm(len(userIDs))
		for i := 0; i < target && i < len(perm); i++ {
			_, err := db.ExecContext(ctx,
				`INSERT INTO registration (user_id, jpo_id, registration_date, status)
				 VALUES ($1, $2, NOW() - make_interval(days => $3), 'registered')`,
				userIDs[perm[i]], jpoID, rng.Intn(30))
			if err != nil {
				return fmt.Errorf("insert registration: %w", err)
			}
		}
	}

	comments := []string{
		"Très bonne organisation, merci !",
		"Est-ce que le parking sera accessible ?",
		"Hâte de découvrir le campus.",
		"Les intervenants étaient passionnants.",
		"Peut-on venir avec un accompagnateur ?",
	}
	for _, jpoID := range jpoIDs {
		for i := 0; i < rng.Intn(4); i++ {
			_, err := db.ExecContext(ctx,
				`INSERT INTO comment (content, comment_date, user_id, jpo_id)
				 VALUES ($1, NOW() - make_interval(days => $2), $3, $4)`,
				comments[rng.Intn(len(comments))], rng.Intn(20),
				userIDs[rng.Intn(len(userIDs))], jpoID)
			if err != nil {
				return fmt.Errorf("insert comment: %w", err)
			}
		}
	}

	return nil
}
