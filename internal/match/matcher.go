// Package match pairs YouTube videos with their Bilibili counterparts by
// fuzzy title similarity and persists the result for later syncing, so the
// operator can review matches before any metadata is propagated.
package match

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/yuwenliu/ytman/internal/storage"
)

// DefaultFloor is the minimum similarity for a pair to count as a match.
const DefaultFloor = 0.5

// Confidence bands for human review.
const (
	ConfidenceHigh   = "high"   // similarity >= 0.9
	ConfidenceMedium = "medium" // similarity >= 0.7
	ConfidenceLow    = "low"
)

// ErrNoBatch indicates no persisted match batch exists yet.
var ErrNoBatch = errors.New("no match batch found")

// Primary is a YouTube-side candidate. MatchTitle is the title used for
// similarity; when the ledger holds the pre-optimization title it goes here,
// since optimization rewrites titles and would otherwise break matching.
type Primary struct {
	ID         string
	Title      string
	MatchTitle string
}

// Secondary is a Bilibili-side candidate. AID is the numeric id update calls
// require.
type Secondary struct {
	BVID  string
	AID   int64
	Title string
}

// Record pairs one YouTube video with one Bilibili video.
type Record struct {
	YouTubeID     string  `json:"youtube_id"`
	YouTubeTitle  string  `json:"youtube_title"`
	BilibiliBVID  string  `json:"bilibili_bvid"`
	BilibiliAID   int64   `json:"bilibili_aid"`
	BilibiliTitle string  `json:"bilibili_title"`
	Similarity    float64 `json:"similarity"`
}

// Confidence returns the record's human-facing confidence band.
func (r Record) Confidence() string { return Band(r.Similarity) }

// Band maps a similarity score to a confidence band.
func Band(similarity float64) string {
	switch {
	case similarity >= 0.9:
		return ConfidenceHigh
	case similarity >= 0.7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Assign matches each primary against the not-yet-claimed secondaries and
// emits a record when the best score reaches floor (<=0 means DefaultFloor).
// Claiming is greedy and irreversible: primaries are visited in input order
// and the first to prefer a secondary wins it, so the assignment is injective
// on the secondary side but not globally optimal. Ties between runs are
// resolved deterministically by input order. Output is sorted by descending
// similarity for presentation, independent of claim order.
func Assign(primaries []Primary, secondaries []Secondary, floor float64) []Record {
	if floor <= 0 {
		floor = DefaultFloor
	}

	claimed := make(map[string]bool, len(secondaries))
	var records []Record

	for _, p := range primaries {
		matchTitle := p.MatchTitle
		if matchTitle == "" {
			matchTitle = p.Title
		}

		bestRatio := 0.0
		bestIdx := -1
		for i, s := range secondaries {
			if claimed[s.BVID] {
				continue
			}
			if ratio := Similarity(matchTitle, s.Title); ratio > bestRatio {
				bestRatio = ratio
				bestIdx = i
			}
		}

		if bestIdx < 0 || bestRatio < floor {
			continue
		}

		best := secondaries[bestIdx]
		claimed[best.BVID] = true
		records = append(records, Record{
			YouTubeID:     p.ID,
			YouTubeTitle:  p.Title,
			BilibiliBVID:  best.BVID,
			BilibiliAID:   best.AID,
			BilibiliTitle: best.Title,
			Similarity:    bestRatio,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Similarity > records[j].Similarity
	})
	return records
}

// Batch is a persisted matching run, consumed later by the sync command.
type Batch struct {
	ID                 string    `json:"id"`
	GeneratedAt        time.Time `json:"generated_at"`
	OriginalTitlesUsed int       `json:"original_titles_used"`
	Matches            []Record  `json:"matches"`
}

// NewBatch wraps matcher output in a batch artifact.
func NewBatch(records []Record, originalTitlesUsed int, now time.Time) *Batch {
	return &Batch{
		ID:                 uuid.NewString(),
		GeneratedAt:        now,
		OriginalTitlesUsed: originalTitlesUsed,
		Matches:            records,
	}
}

// SaveBatch persists a batch at path.
func SaveBatch(path string, b *Batch) error {
	if err := storage.NewDocument(path, "match batch").Save(b); err != nil {
		return fmt.Errorf("save match batch: %w", err)
	}
	return nil
}

// LoadBatch reads the batch at path. Returns ErrNoBatch when absent.
func LoadBatch(path string) (*Batch, error) {
	var b Batch
	found, err := storage.NewDocument(path, "match batch").Load(&b)
	if err != nil {
		return nil, fmt.Errorf("load match batch: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w at %s", ErrNoBatch, path)
	}
	return &b, nil
}

// Filter narrows a batch to one YouTube id when given, otherwise to records
// at or above minConfidence.
func (b *Batch) Filter(minConfidence float64, youtubeID string) []Record {
	var out []Record
	for _, r := range b.Matches {
		if youtubeID != "" {
			if r.YouTubeID == youtubeID {
				out = append(out, r)
			}
			continue
		}
		if r.Similarity >= minConfidence {
			out = append(out, r)
		}
	}
	return out
}
