package lesson

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"tutorchat/internal/models"
)

//go:embed fixtures/qa.json
var builtinQA []byte

// Fixtures holds static QA pairs keyed by lesson id, used when a lesson PDF carries none.
type Fixtures map[string][]models.QAPair

func LoadFixtures(data []byte) (Fixtures, error) {
	var fx Fixtures
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("decode qa fixtures: %w", err)
	}
	for id, pairs := range fx {
		for i := range pairs {
			pairs[i].Answer = NormalizeAnswer(pairs[i].Answer)
		}
		fx[id] = pairs
	}
	return fx, nil
}

// BuiltinFixtures returns the fixtures compiled into the binary.
func BuiltinFixtures() Fixtures {
	fx, err := LoadFixtures(builtinQA)
	if err != nil {
		panic(err)
	}
	return fx
}

// For returns a copy of the pairs for lessonID.
func (f Fixtures) For(lessonID string) []models.QAPair {
	pairs := f[lessonID]
	if len(pairs) == 0 {
		return nil
	}
	out := make([]models.QAPair, len(pairs))
	copy(out, pairs)
	return out
}
