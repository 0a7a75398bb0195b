//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"influencerag/internal/adapter/chunker"
	"influencerag/internal/adapter/embedding"
	"influencerag/internal/adapter/retriever"
	"influencerag/internal/adapter/store"
	"influencerag/internal/domain"
	"influencerag/internal/usecase"
)

// The browser build runs fully offline: hashed embeddings, in-memory
// store, deterministic answers.
const vectorDim = 384

var (
	st       *store.MemoryStore
	embedder *embedding.HashedEmbedder
	ingestUC *usecase.IngestUseCase
	answerUC *usecase.AnswerUseCase
)

func init() {
	setup()
}

func setup() {
	st = store.NewMemoryStore(vectorDim)
	embedder = embedding.NewHashedEmbedder(vectorDim)
	ingestUC = usecase.NewIngestUseCase(st, embedder, chunker.NewPostChunker(280), 100, "")

	semantic := retriever.NewSemanticRetriever(st, embedder)
	answerUC = usecase.NewAnswerUseCase(retriever.NewKeywordFallbackRetriever(semantic, st), nil, 3)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("assistantIngest", js.FuncOf(ingestProfiles))
	js.Global().Set("assistantAsk", js.FuncOf(askQuestion))
	js.Global().Set("assistantClear", js.FuncOf(clearStore))
	js.Global().Set("assistantStats", js.FuncOf(getStats))

	<-c
}

func ingestProfiles(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: assistantIngest(profilesJSON)")
	}

	var profiles []domain.Profile
	if err := json.Unmarshal([]byte(args[0].String()), &profiles); err != nil {
		return makeError("invalid profiles JSON: " + err.Error())
	}

	result, err := ingestUC.Ingest(profiles, nil)
	if err != nil {
		return makeError("ingestion failed: " + err.Error())
	}

	return makeResult(map[string]interface{}{
		"success":  true,
		"profiles": result.ProfilesIngested,
		"records":  result.RecordsStored,
	})
}

func askQuestion(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: assistantAsk(question, [topK], [mode])")
	}

	opts := usecase.AnswerOptions{}
	if len(args) > 1 {
		opts.TopK = args[1].Int()
	}
	if len(args) > 2 {
		opts.Mode = args[2].String()
	}

	answer, err := answerUC.Answer(args[0].String(), opts)
	if err != nil {
		return makeError("query failed: " + err.Error())
	}

	return makeResult(map[string]interface{}{
		"answer":    answer.Answer,
		"citations": answer.Citations,
	})
}

func clearStore(this js.Value, args []js.Value) interface{} {
	setup()
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	return makeResult(map[string]interface{}{
		"records":   st.Count(),
		"dimension": st.Dimension(),
		"backend":   st.Backend(),
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
