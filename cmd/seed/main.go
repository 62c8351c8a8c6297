package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"paperpulse/internal/author"
	"paperpulse/internal/config"
	"paperpulse/internal/entity"
	"paperpulse/internal/paper"
	"paperpulse/internal/platform/postgres"
)

var (
	firstNames = []string{"Ada", "Alan", "Barbara", "Claude", "Donald", "Edsger", "Frances", "Grace", "John", "Katherine", "Leslie", "Margaret", "Radia", "Tim"}
	lastNames  = []string{"Allen", "Dijkstra", "Hamilton", "Hopper", "Johnson", "Knuth", "Lamport", "Liskov", "Lovelace", "McCarthy", "Perlman", "Shannon", "Turing"}
	fields     = []string{"distributed systems", "type theory", "information retrieval", "compilers", "graph algorithms", "databases", "networking", "formal methods"}
	adjectives = []string{"Scalable", "Robust", "Incremental", "Probabilistic", "Verified", "Adaptive", "Lightweight", "Concurrent"}
	nouns      = []string{"Consensus", "Indexing", "Scheduling", "Type Inference", "Query Planning", "Garbage Collection", "Routing", "Caching"}
)

func main() {
	var (
		authorCount = flag.Int("authors", 10, "Number of authors to create")
		paperCount  = flag.Int("papers", 25, "Number of papers to create")
		keep        = flag.Bool("keep", false, "Keep existing rows instead of clearing the tables")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.Open(ctx, cfg.DSN, cfg.DBTimeout)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if !*keep {
		log.Println("Clearing existing data...")
		if _, err := pool.Exec(ctx, `TRUNCATE papers, authors RESTART IDENTITY CASCADE`); err != nil {
			log.Fatalf("Failed to clear tables: %v", err)
		}
	}

	if err := seed(ctx, pool, cfg, *authorCount, *paperCount); err != nil {
		log.Fatal(err)
	}
}

func seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Server, authorCount, paperCount int) error {
	authors := author.NewService(author.NewPostgresRepo(pool, cfg.DBTimeout))
	papers := paper.NewService(paper.NewPostgresRepo(pool, cfg.DBTimeout), authors)

	log.Println("Seeding authors...")
	var authorIDs []int
	for i := 0; i < authorCount; i++ {
		a, err := authors.Create(ctx, fakeAuthor(i))
		if err != nil {
			log.Printf("Skipping author: %v", err)
			continue
		}
		authorIDs = append(authorIDs, a.ID)
	}
	log.Printf("Created %d authors", len(authorIDs))

	if len(authorIDs) == 0 {
		log.Println("No authors created, skipping papers")
		return nil
	}

	log.Println("Seeding papers...")
	created := 0
	for i := 0; i < paperCount; i++ {
		_, ok, err := papers.Create(ctx, fakePaper(authorIDs[rand.IntN(len(authorIDs))]))
		if err != nil {
			log.Printf("Skipping paper: %v", err)
			continue
		}
		if ok {
			created++
		}
	}
	log.Printf("Created %d papers", created)

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM papers").Scan(&total); err != nil {
		return fmt.Errorf("count papers: %w", err)
	}
	log.Printf("Total papers in database: %d", total)
	return nil
}

func fakeAuthor(i int) entity.AuthorCreate {
	first := firstNames[rand.IntN(len(firstNames))]
	last := lastNames[rand.IntN(len(lastNames))]
	bio := fmt.Sprintf("Researcher working on %s.", fields[rand.IntN(len(fields))])
	return entity.AuthorCreate{
		Name:  first + " " + last,
		Email: fmt.Sprintf("%s.%s.%d@example.org", strings.ToLower(first), strings.ToLower(last), i+1),
		Bio:   &bio,
	}
}

func fakePaper(authorID int) entity.PaperCreate {
	adj := adjectives[rand.IntN(len(adjectives))]
	noun := nouns[rand.IntN(len(nouns))]
	abstract := fmt.Sprintf("We present a %s approach to %s and evaluate it on real workloads.",
		strings.ToLower(adj), strings.ToLower(noun))
	return entity.PaperCreate{
		Title:    fmt.Sprintf("%s %s", adj, noun),
		DOI:      fmt.Sprintf("10.%04d/%s", 1000+rand.IntN(9000), uuid.NewString()[:8]),
		AuthorID: authorID,
		Abstract: &abstract,
	}
}
