package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"newsgraph/backend/internal/app"
	"newsgraph/backend/internal/crawler"
	"newsgraph/backend/internal/graph"
	"newsgraph/backend/internal/relevance"
	"newsgraph/backend/internal/reliability"
	"newsgraph/backend/internal/sentiment"
	"newsgraph/backend/pkg/config"
	"newsgraph/backend/pkg/logger"
)

// sampleArticle is a hand-written article for local development graphs
type sampleArticle struct {
	url    string
	header string
	author string
	topics []string
	text   string
	parent string // url of the article linking to this one
}

var samples = []sampleArticle{
	{
		url:    "https://time.com/7000001/mars-rover-water/",
		header: "Rover finds signs of water beneath Martian crater",
		author: "Sample Author",
		topics: []string{"Space", "Science"},
		text:   "The rover drilled into the crater floor and found layered minerals. Scientists said the deposits formed in standing water. The mission team will return samples for analysis.",
	},
	{
		url:    "https://time.com/7000002/ice-deposits/",
		header: "Ice deposits mapped near the Martian pole",
		author: "Sample Author",
		topics: []string{"Space"},
		text:   "Orbiting instruments mapped ice deposits near the pole. Scientists compared the layers with minerals found by the rover in the crater.",
		parent: "https://time.com/7000001/mars-rover-water/",
	},
	{
		url:    "https://time.com/7000003/fusion-record/",
		header: "Fusion reactor sets a new record",
		author: "Sample Author",
		topics: []string{"Energy", "Science"},
		text:   "A fusion reactor held plasma for a record time. Engineers called it a wonderful step, though commercial power remains decades away.",
	},
	{
		url:    "https://time.com/7000004/fusion-funding/",
		header: "Governments raise fusion research budgets",
		author: "Sample Author",
		topics: []string{"Energy"},
		text:   "Several governments raised budgets for fusion research after the reactor record. Critics argued the money would be better spent on existing power sources.",
		parent: "https://time.com/7000003/fusion-record/",
	},
}

func main() {
	reset := flag.Bool("reset", false, "Delete every article before seeding")
	yes := flag.Bool("yes", false, "Skip the reset confirmation prompt")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	if *reset && !*yes {
		log.Warn("This will DELETE ALL ARTICLES from Neo4j")
		// Prompt goes to stdout
		fmt.Print("Are you sure you want to continue? (yes/no): ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
			log.Info("Aborted.")
			return
		}
	}

	ctx := context.Background()
	repo, err := app.ConnectGraph(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer repo.Close(ctx)

	if *reset {
		deleted, err := repo.DeleteAll(ctx)
		if err != nil {
			log.Fatal("Failed to delete articles", zap.Error(err))
		}
		log.Info("Articles deleted", zap.Int("deleted", deleted))
	}

	var corpus []string
	for _, s := range samples {
		corpus = append(corpus, s.text)
	}
	model, err := relevance.New(strings.Join(corpus, " "))
	if err != nil {
		log.Fatal("Failed to train relevance model", zap.Error(err))
	}

	lexicon := sentiment.NewLexicon()
	texts := make(map[string]string, len(samples))
	for _, s := range samples {
		polarity, subjectivity := lexicon.Score(s.text)
		id := crawler.NodeID(s.url)
		existed, err := repo.CreateOrGetNode(ctx, graph.Article{
			ID:           id,
			Header:       s.header,
			Author:       s.author,
			Link:         s.url,
			Text:         s.text,
			Topics:       s.topics,
			Sentiment:    polarity,
			Subjectivity: subjectivity,
		})
		if err != nil {
			log.Fatal("Failed to create article", zap.String("url", s.url), zap.Error(err))
		}
		texts[s.url] = s.text
		log.Info("Article seeded", zap.String("id", id), zap.Bool("existed", existed))
	}

	for _, s := range samples {
		if s.parent == "" {
			continue
		}
		score := model.Similarity(s.text, texts[s.parent])
		if err := repo.CreateEdge(ctx, crawler.NodeID(s.parent), crawler.NodeID(s.url), score); err != nil {
			log.Fatal("Failed to create reference", zap.String("url", s.url), zap.Error(err))
		}
	}

	summary, err := reliability.NewProcessor(repo, cfg.ReliabilityBatchSize).Run(ctx)
	if err != nil {
		log.Fatal("Failed to score reliability", zap.Error(err))
	}

	counts, err := repo.Counts(ctx)
	if err != nil {
		log.Fatal("Failed to count graph", zap.Error(err))
	}
	log.Info("Database seeded successfully",
		zap.Int64("articles", counts.Articles),
		zap.Int64("references", counts.References),
		zap.Int("scored", summary.Scored),
	)
}
