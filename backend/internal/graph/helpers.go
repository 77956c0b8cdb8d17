package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Helper Functions
// ============================================================================

func articleFromRecord(record *neo4j.Record) *Article {
	a := &Article{
		ID:            getStringFromRecord(record, "id"),
		Header:        getStringFromRecord(record, "header"),
		Author:        getStringFromRecord(record, "author"),
		DatePublished: getStringFromRecord(record, "date_published"),
		Link:          getStringFromRecord(record, "link"),
		Text:          getStringFromRecord(record, "text"),
		Topics:        getStringSliceFromRecord(record, "topics"),
		Sentiment:     getFloat64FromRecord(record, "sentiment"),
		Subjectivity:  getFloat64FromRecord(record, "subjectivity"),
	}
	if val, ok := record.Get("reliability_score"); ok && val != nil {
		score := getFloat64FromRecord(record, "reliability_score")
		a.ReliabilityScore = &score
	}
	return a
}

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getBoolFromRecord(record *neo4j.Record, key string) bool {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return false
	}
	b, _ := val.(bool)
	return b
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}

func getFloat64FromRecord(record *neo4j.Record, key string) float64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0.0
	}
	if f, ok := val.(float64); ok {
		return f
	}
	if i, ok := val.(int64); ok {
		return float64(i)
	}
	return 0.0
}

func getStringSliceFromRecord(record *neo4j.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return []string{}
	}
	if slice, ok := val.([]interface{}); ok {
		result := make([]string, 0, len(slice))
		for _, v := range slice {
			if str, ok := v.(string); ok {
				result = append(result, str)
			}
		}
		return result
	}
	return []string{}
}
