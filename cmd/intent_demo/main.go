package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gkatsarova/planzy-sub001/internal/ai"
	"github.com/gkatsarova/planzy-sub001/internal/intent"
	"github.com/gkatsarova/planzy-sub001/internal/logging"
	"github.com/gkatsarova/planzy-sub001/internal/modules/themestore"
)

func main() {
	useGemini := flag.Bool("gemini", false, "use Gemini instead of the local prose extractor")
	flag.Parse()

	texts := flag.Args()
	if len(texts) == 0 {
		texts = []string{
			"Plan a 5 day trip to Paris, budget $200",
			"I want to visit a castle in Berlin",
			"I want a historical tour for 4 days but also want to hit a bar at night",
			"Let's go to Tokyo for a week",
		}
	}

	logger, err := logging.NewLogger("warn", "")
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var extractor intent.EntityExtractor = ai.NewProseExtractor(logger)
	if *useGemini {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY environment variable not set")
		}
		gemini, err := ai.NewGeminiExtractor(ctx, apiKey, "", logger)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini extractor: %v", err)
		}
		defer gemini.Close()
		extractor = gemini
	}

	parser, err := intent.NewParser(ctx, extractor, themestore.NewModelStore(themestore.NewMemoryKV(), logger), "Unknown", logger)
	if err != nil {
		log.Fatalf("Failed to initialize parser: %v", err)
	}

	for i, res := range parser.ParseBatch(ctx, texts, 2) {
		fmt.Printf("User: %s\n", strings.TrimSpace(texts[i]))
		vi, err := res.Get()
		if err != nil {
			fmt.Printf("Error: %v\n\n", err)
			continue
		}
		out, _ := json.MarshalIndent(vi, "", "  ")
		fmt.Printf("%s\n\n", out)
	}
}
