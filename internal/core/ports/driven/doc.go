// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Normaliser: Extracts text from an uploaded PDF
//   - PostProcessor / PostProcessorPipeline / PipelineBuilder: Splits text into chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Immutable nearest-neighbour index over chunk embeddings
//   - VectorIndexBuilder: Builds a VectorIndex from embedded chunks
//   - IndexStore: Persists an index to the index directory, replacing the previous one
//   - LLMService: Generates the answer from the prompt
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
