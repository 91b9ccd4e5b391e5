// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package terms

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Vocabulary holds the curated word lists and synonym table the extractor
// matches against. A built-in default ships with the engine; deployments
// can replace it from a YAML file.
type Vocabulary struct {
	Symptoms    []string            `yaml:"symptoms"`
	Conditions  []string            `yaml:"conditions"`
	BodyParts   []string            `yaml:"body_parts"`
	Medications []string            `yaml:"medications"`
	Synonyms    map[string][]string `yaml:"synonyms"`
}

// LoadVocabulary reads a vocabulary YAML file. An empty path returns the
// built-in default.
func LoadVocabulary(path string) (Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Vocabulary{}, fmt.Errorf("reading vocabulary file: %w", err)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("parsing vocabulary file: %w", err)
	}
	if len(v.Symptoms)+len(v.Conditions)+len(v.BodyParts)+len(v.Medications) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary file %s contains no terms", path)
	}
	return v, nil
}

// DefaultVocabulary returns the built-in term lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Symptoms: []string{
			"headache", "migraine", "fever", "cough", "nausea", "vomiting",
			"dizziness", "fatigue", "rash", "pain", "sore throat",
			"shortness of breath", "chest pain", "back pain", "cramp",
			"swelling", "itching", "insomnia", "anxiety", "depression",
			"diarrhea", "constipation", "heartburn", "congestion",
			"runny nose", "sneezing", "chills", "numbness", "bleeding",
			"bruising", "wheezing", "palpitations",
		},
		Conditions: []string{
			"diabetes", "hypertension", "asthma", "arthritis", "cancer",
			"influenza", "pneumonia", "bronchitis", "allergy", "allergies",
			"anemia", "obesity", "osteoporosis", "stroke", "eczema",
			"psoriasis", "gout", "ulcer", "gerd", "copd",
			"high blood pressure", "high cholesterol", "heart disease",
			"kidney disease", "thyroid disease", "covid", "shingles",
			"sinusitis", "tonsillitis", "urinary tract infection",
		},
		BodyParts: []string{
			"head", "neck", "chest", "back", "stomach", "abdomen", "arm",
			"leg", "knee", "ankle", "foot", "hand", "wrist", "shoulder",
			"hip", "throat", "ear", "eye", "skin", "heart", "lung",
			"kidney", "liver",
		},
		Medications: []string{
			"aspirin", "ibuprofen", "acetaminophen", "tylenol", "advil",
			"metformin", "lisinopril", "atorvastatin", "amoxicillin",
			"omeprazole", "amlodipine", "metoprolol", "albuterol",
			"gabapentin", "losartan", "sertraline", "insulin",
			"prednisone", "warfarin", "levothyroxine",
		},
		Synonyms: map[string][]string{
			"headache":            {"head pain", "migraine"},
			"fever":               {"high temperature"},
			"hypertension":        {"high blood pressure"},
			"high blood pressure": {"hypertension"},
			"flu":                 {"influenza"},
			"influenza":           {"flu"},
			"heart attack":        {"myocardial infarction"},
			"tylenol":             {"acetaminophen"},
			"advil":               {"ibuprofen"},
			"stomach":             {"abdominal"},
			"covid":               {"coronavirus"},
			"diabetes":            {"blood sugar"},
		},
	}
}
