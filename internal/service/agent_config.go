package service

import "fmt"

// enableRAG mutates the fetched agent configuration in place: the rag block
// under agent.prompt is replaced, and the knowledge-base entry matching
// documentID gets usage_mode "auto". A missing entry is not an error; every
// other field of the configuration stays untouched.
func enableRAG(config map[string]interface{}, documentID, embeddingModel string, maxDocumentsLength int) error {
	agent, ok := config["agent"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("agent configuration has no agent object")
	}
	prompt, ok := agent["prompt"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("agent configuration has no agent.prompt object")
	}
	prompt["rag"] = map[string]interface{}{
		"enabled":              true,
		"embedding_model":      embeddingModel,
		"max_documents_length": maxDocumentsLength,
	}
	entries, _ := prompt["knowledge_base"].([]interface{})
	for _, item := range entries {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if id, _ := entry["id"].(string); id == documentID {
			entry["usage_mode"] = "auto"
		}
	}
	return nil
}
