package analysisapi

import (
	"context"
	"net/http"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/internal/errors"
	"solarweb/ports"
)

const timeSlotsPath = "/energy/time-slots"

// Hello calls the service root, used as a liveness probe
func (c *Client) Hello(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, "/")
	if err != nil {
		return "", err
	}
	return decodeMessage(resp.body)
}

// PostEnergyFile uploads a consumption file for time-slot analysis and
// returns the new analysis ID.
func (c *Client) PostEnergyFile(ctx context.Context, file ports.Upload) (core.AnalysisID, error) {
	resp, err := c.postMultipart(ctx, timeSlotsPath, file, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to upload energy file")
	}
	id, err := decodeAnalysisID(resp.body)
	if err != nil {
		return "", err
	}
	c.logger.Info("uploaded energy file %q as analysis %s", file.Filename, id)
	return id, nil
}

// EnergyByTimeSlot returns the time-slot results of an analysis as a raw
// semicolon-delimited table.
func (c *Client) EnergyByTimeSlot(ctx context.Context, id core.AnalysisID) (string, error) {
	resp, err := c.get(ctx, analysisPath(timeSlotsPath, id))
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch time slots of %s", id)
	}
	return string(resp.body), nil
}

// ListTimeSlotResults lists the energy analyses known to the service
func (c *Client) ListTimeSlotResults(ctx context.Context) ([]analysis.Summary, error) {
	resp, err := c.get(ctx, timeSlotsPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list energy analyses")
	}
	return decodeSummaries(resp.body, analysis.KindEnergy)
}

// DeleteAnalysis removes an analysis and returns the service's message
func (c *Client) DeleteAnalysis(ctx context.Context, id core.AnalysisID) (string, error) {
	resp, err := c.do(ctx, http.MethodDelete, analysisPath(timeSlotsPath, id), nil, "")
	if err != nil {
		return "", errors.Wrapf(err, "failed to delete analysis %s", id)
	}
	c.logger.Info("deleted analysis %s", id)
	return decodeMessage(resp.body)
}
