package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/joho/godotenv"

	"termtutor/llm/agent"
	"termtutor/llm/providers"
	"termtutor/llm/tools"
	"termtutor/llm/wiki"
	"termtutor/pubsub"
	"termtutor/render"
	"termtutor/session"
)

func init() {
	// Load .env if present; real env vars take precedence.
	_ = godotenv.Load()
}

func main() {
	terms := flag.String("terms", "", "comma-separated terms to explain non-interactively")
	flag.Parse()

	ctx := context.Background()

	// Credentials are resolved once; missing credentials are fatal before
	// any interactive loop begins.
	chatModel, providerName, err := providers.Resolve(ctx, os.Getenv)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	wikiClient := wiki.NewClient(nil)
	toolSet := []tool.BaseTool{
		tools.NewDefinitionTool(wikiClient),
		tools.NewContextTool(wikiClient),
	}

	rt, err := agent.NewRuntime(ctx, &agent.Config{
		ChatModel: chatModel,
		Tools:     toolSet,
	})
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer rt.Close()

	renderer := render.New()
	fmt.Printf("Initialized term explainer (provider: %s)\n", providerName)

	// Live progress lines while the engine is thinking.
	go func() {
		for event := range rt.Broker().Subscribe(ctx) {
			if event.Type == pubsub.ToolCallEvent {
				fmt.Println(renderer.ToolCall(event.Payload.Tool, event.Payload.Args))
			}
		}
	}()

	if *terms != "" {
		if err := runBatch(ctx, rt, renderer, *terms); err != nil {
			log.Fatalf("batch run failed: %v", err)
		}
		return
	}

	sess := session.New(os.Stdin, os.Stdout, rt, renderer)
	_ = sess.Run(ctx)
}

// runBatch explains each comma-separated term once at all tiers. Failures
// are reported per term; the run only fails as a whole when every term does.
func runBatch(ctx context.Context, rt *agent.Runtime, renderer *render.Renderer, list string) error {
	var failures int
	terms := strings.Split(list, ",")

	for i, raw := range terms {
		term := strings.TrimSpace(raw)
		if term == "" {
			continue
		}

		fmt.Println(renderer.Banner(fmt.Sprintf("Term %d/%d: %s", i+1, len(terms), term), ""))

		res, err := rt.Explain(ctx, term, agent.TierAll)
		if err != nil {
			failures++
			fmt.Println(renderer.Error(fmt.Sprintf("Could not produce an explanation for %q: %v", term, err)))
			continue
		}
		fmt.Println(renderer.Result(term, res))
	}

	if failures == len(terms) {
		return fmt.Errorf("all %d terms failed", len(terms))
	}
	return nil
}
