package captioner

import (
	"context"
	"errors"
	"strings"
	"time"

	"altd/internal/store"
	"altd/pkg/types"
)

// Describe captions one uploaded image. It resolves the model, normalises the
// image, serves a cached caption when one exists and otherwise loads the model
// on demand and runs it under per-model admission control.
func (m *Manager) Describe(ctx context.Context, req DescribeRequest) (types.DescribeResponse, error) {
	mdl, err := m.Resolve(req.Model)
	if err != nil {
		return types.DescribeResponse{}, err
	}
	img, err := prepareImage(req.Data, m.maxImageSide, m.maxImagePixels)
	if err != nil {
		captionsTotal.WithLabelValues(mdl.ID, "invalid_image").Inc()
		return types.DescribeResponse{}, err
	}

	key := store.Key{ImageHash: img.Hash, Model: mdl.ID}
	if e, ok, err := m.cache.Get(ctx, key); err != nil {
		m.log.Warn().Err(err).Str("model", mdl.ID).Msg("caption cache lookup failed")
	} else if ok {
		cacheHitsTotal.WithLabelValues(mdl.ID).Inc()
		captionsTotal.WithLabelValues(mdl.ID, "cached").Inc()
		return types.DescribeResponse{AltText: e.AltText, ModelUsed: mdl.ID, Cached: true}, nil
	}

	inst, err := m.ensureLoaded(ctx, mdl)
	if err != nil {
		captionsTotal.WithLabelValues(mdl.ID, "load_error").Inc()
		return types.DescribeResponse{}, err
	}
	// Admission: per-instance queue, single in-flight
	release, err := m.beginCaption(ctx, inst)
	if err != nil {
		captionsTotal.WithLabelValues(mdl.ID, "rejected").Inc()
		return types.DescribeResponse{}, err
	}
	defer release()

	m.log.Info().Str("model", mdl.ID).Int("width", img.Width).Int("height", img.Height).Msg("processing image")
	startTs := time.Now()
	text, err := inst.captioner.Caption(ctx, img)
	captionDuration.WithLabelValues(mdl.ID).Observe(time.Since(startTs).Seconds())
	if err != nil {
		captionsTotal.WithLabelValues(mdl.ID, "error").Inc()
		return types.DescribeResponse{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		captionsTotal.WithLabelValues(mdl.ID, "error").Inc()
		return types.DescribeResponse{}, errors.New(mdl.ID + " returned an empty caption")
	}
	m.captionsTotal.Add(1)
	captionsTotal.WithLabelValues(mdl.ID, "ok").Inc()

	if err := m.cache.Put(ctx, store.Entry{Key: key, AltText: text}); err != nil {
		m.log.Warn().Err(err).Str("model", mdl.ID).Msg("caption cache store failed")
	}
	return types.DescribeResponse{AltText: text, ModelUsed: mdl.ID}, nil
}
