// README: Trip loading service; picks Postgres, CSV, or the seeded sample in that order.
package trip

import (
	"context"
	"errors"
	"io/fs"

	"go.uber.org/zap"
)

type Origin string

const (
	OriginPostgres Origin = "postgres"
	OriginCSV      Origin = "csv"
	OriginSample   Origin = "sample"
)

type Options struct {
	CSVPath    string
	SampleSize int
	SampleSeed int64
}

type Service struct {
	store *Store
	opts  Options
	log   *zap.Logger
}

// NewService wires a loader. store may be nil when no database is configured.
func NewService(store *Store, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, opts: opts, log: log.Named("trip")}
}

// Load returns the dataset and where it came from. A missing CSV falls back
// to the seeded sample; a malformed one is an error.
func (s *Service) Load(ctx context.Context) ([]Trip, Origin, error) {
	if s.store != nil {
		trips, err := s.store.ListAll(ctx)
		switch {
		case err == nil:
			s.log.Info("loaded trips", zap.String("origin", string(OriginPostgres)), zap.Int("count", len(trips)))
			return trips, OriginPostgres, nil
		case errors.Is(err, ErrNoData):
			s.log.Warn("trips table empty, trying csv")
		default:
			return nil, "", err
		}
	}

	if s.opts.CSVPath != "" {
		trips, report, err := LoadCSVFile(s.opts.CSVPath)
		switch {
		case err == nil:
			s.log.Info("loaded trips",
				zap.String("origin", string(OriginCSV)),
				zap.String("path", s.opts.CSVPath),
				zap.Int("count", report.Loaded),
				zap.Int("skipped", report.Skipped))
			if v := Validate(trips); !v.OK() {
				s.log.Warn("data quality issues", zap.Strings("issues", v.Issues))
			}
			return trips, OriginCSV, nil
		case errors.Is(err, fs.ErrNotExist):
			s.log.Warn("csv not found, generating sample", zap.String("path", s.opts.CSVPath))
		default:
			return nil, "", err
		}
	}

	seed := s.opts.SampleSeed
	if seed == 0 {
		seed = DefaultSampleSeed
	}
	trips := GenerateSample(s.opts.SampleSize, seed)
	s.log.Info("loaded trips", zap.String("origin", string(OriginSample)), zap.Int("count", len(trips)))
	return trips, OriginSample, nil
}
