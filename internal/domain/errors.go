package domain

import "errors"

var (
	// ErrVectorStoreUnavailable is returned when the vector store cannot be queried.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
	// ErrEmbeddingFailed is returned when a prompt cannot be embedded.
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrLLMFailed indicates the completion endpoint failed or returned nothing.
	ErrLLMFailed = errors.New("llm completion failed")
	// ErrSearchFailed indicates the web search provider returned a non-success status.
	ErrSearchFailed = errors.New("web search failed")
	// ErrNoSearchResults indicates the web search succeeded but returned no results.
	ErrNoSearchResults = errors.New("web search returned no results")
	// ErrNoJSONObject indicates no balanced JSON object was found in model output.
	ErrNoJSONObject = errors.New("no json object in model output")
	// ErrMalformedQuestion indicates model output did not decode into a question.
	ErrMalformedQuestion = errors.New("malformed question")
	// ErrNoTopics indicates the corpus exposes no topic metadata.
	ErrNoTopics = errors.New("no topics found")
)
