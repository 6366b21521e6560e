package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lim28y/Sleep-Disorder-Prediction/ai"
	"github.com/lim28y/Sleep-Disorder-Prediction/config"
	"github.com/lim28y/Sleep-Disorder-Prediction/models"
	"github.com/lim28y/Sleep-Disorder-Prediction/utils"
	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"
)

// FallbackTip is returned whenever the advice backend is unavailable or
// fails. The submit path never surfaces an advice error to the user.
const FallbackTip = "Sleep Tip: Try to maintain a consistent sleep schedule."

const noKnowledgeTip = "System Tip: Add documents to the knowledge base folder to get personalized advice."

const coachSystemPrompt = "You are an empathetic, professional Sleep Health Coach. " +
	"Your goal is to give ONE practical tip based on the provided Context and the User's specific stats.\n\n" +
	"ANALYSIS RULES:\n" +
	"1. Identify the user's WORST metric from the stats (e.g., Is stress high? Is sleep duration low?).\n" +
	"2. Retrieve advice from the Context that specifically targets that worst metric.\n" +
	"3. **CRITICAL:** If the user has NOT explicitly reported using alcohol, caffeine, or smoking, **DO NOT mention them**.\n" +
	"4. **FORMATTING:** Do NOT use citations like (ref: Context) or [1]. Write naturally.\n\n" +
	"Context:\n%s"

const (
	chunkSize    = 1000
	chunkOverlap = 200
	retrieveTopK = 4
)

// AdviceService is the retrieval-augmented tip generator: a persistent
// chromem-go collection built from the knowledge-base folder, queried with a
// natural-language profile of the day's metrics, answered by an Ollama chat
// model. Fully best-effort: a missing backend degrades to canned tips.
type AdviceService struct {
	client     *ai.OllamaClient
	collection *chromem.Collection
	logger     *zap.Logger
	timeout    time.Duration
	maxRetries int
}

func NewAdviceService(cfg config.AdviceConfig, client *ai.OllamaClient, logger *zap.Logger) (*AdviceService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AdviceService{
		client:     client,
		logger:     logger,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
	}
	if s.timeout <= 0 {
		s.timeout = 60 * time.Second
	}

	if !client.IsConfigured() {
		logger.Warn("advice_backend_not_configured")
		return s, nil
	}

	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	vdb, err := chromem.NewPersistentDB(cfg.IndexDir, false)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}

	embed := func(ctx context.Context, text string) ([]float32, error) {
		vecs, err := client.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		return vecs[0], nil
	}

	collection, err := vdb.GetOrCreateCollection("sleep_knowledge", nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}
	s.collection = collection

	// Existing index is reused as-is; the knowledge folder is only scanned
	// when the collection is empty.
	if collection.Count() == 0 {
		if err := s.indexKnowledgeBase(context.Background(), cfg.KnowledgeDir); err != nil {
			logger.Warn("knowledge_base_indexing_failed", zap.Error(err))
		}
	}

	return s, nil
}

func (s *AdviceService) indexKnowledgeBase(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	indexed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			s.logger.Warn("knowledge_file_unreadable",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			continue
		}

		for i, chunk := range chunkText(string(data), chunkSize, chunkOverlap) {
			doc := chromem.Document{
				ID:      fmt.Sprintf("%s#%d", entry.Name(), i),
				Content: chunk,
				Metadata: map[string]string{
					"file": entry.Name(),
				},
			}
			if err := s.collection.AddDocument(ctx, doc); err != nil {
				return fmt.Errorf("index %s: %w", entry.Name(), err)
			}
			indexed++
		}
	}

	s.logger.Info("knowledge_base_indexed",
		zap.String("dir", dir),
		zap.Int("chunks", indexed),
	)
	return nil
}

// DailyTip produces one personalized coaching tip for the submitted log and
// its classification. It never returns an error: every failure path yields
// a usable fallback string.
func (s *AdviceService) DailyTip(ctx context.Context, log models.SleepLog, label models.Label) string {
	if s.collection == nil {
		utils.AdviceCount.WithLabelValues("unconfigured").Inc()
		return FallbackTip
	}
	if s.collection.Count() == 0 {
		utils.AdviceCount.WithLabelValues("no_knowledge").Inc()
		return noKnowledgeTip
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	desc := DescribeProfile(log, label)

	topK := retrieveTopK
	if count := s.collection.Count(); count < topK {
		topK = count
	}
	results, err := s.collection.Query(ctx, desc, topK, nil, nil)
	if err != nil {
		s.logger.Warn("advice_retrieval_failed", zap.Error(err))
		utils.AdviceCount.WithLabelValues("fallback").Inc()
		return FallbackTip
	}

	contextChunks := make([]string, len(results))
	for i, r := range results {
		contextChunks[i] = r.Content
	}

	messages := []ai.Message{
		{Role: "system", Content: fmt.Sprintf(coachSystemPrompt, strings.Join(contextChunks, "\n\n"))},
		{Role: "user", Content: fmt.Sprintf("User Data: %s\n\nPlease provide a short, personalized sleep recommendation.", desc)},
	}

	// The generation call is the one network/LLM-latency-bound dependency,
	// so it alone gets bounded retries with backoff.
	var answer string
	for attempt := 0; ; attempt++ {
		answer, err = s.client.Chat(ctx, messages, 0.7)
		if err == nil {
			break
		}
		if attempt >= s.maxRetries || ctx.Err() != nil {
			s.logger.Warn("advice_generation_failed",
				zap.Int("attempts", attempt+1),
				zap.Error(err),
			)
			utils.AdviceCount.WithLabelValues("fallback").Inc()
			return FallbackTip
		}
		backoff := time.Duration(500*(1<<attempt)) * time.Millisecond
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			utils.AdviceCount.WithLabelValues("fallback").Inc()
			return FallbackTip
		}
	}

	utils.AdviceCount.WithLabelValues("ok").Inc()
	return strings.TrimSpace(answer)
}

// DescribeProfile renders the day's metrics and classification as the
// natural-language profile the retriever and the coach prompt consume.
func DescribeProfile(log models.SleepLog, label models.Label) string {
	gender := "Female"
	if log.Gender == 1 {
		gender = "Male"
	}
	return fmt.Sprintf(
		"The user is a %d year old %s.\n"+
			"Current Status: %s.\n"+
			"Stats:\n"+
			"- Sleep Duration: %g hours (Low if < 7)\n"+
			"- Sleep Quality: %d/10\n"+
			"- Stress Level: %d/10 (High if > 5)\n"+
			"- Daily Steps: %d\n"+
			"- Blood Pressure: %d/%d",
		log.Age, gender, label,
		log.SleepDuration, log.QualitySleep, log.StressLevel,
		log.DailySteps, log.BPSystolic, log.BPDiastolic,
	)
}

func chunkText(text string, size, overlap int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{string(runes)}
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
