package analysisapi

import (
	"context"

	"solarweb/domain/analysis"
	"solarweb/domain/core"
	"solarweb/internal/errors"
	"solarweb/ports"
)

const solarPath = "/solar"

// HelloSolar calls the solar router root
func (c *Client) HelloSolar(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, solarPath+"/")
	if err != nil {
		return "", err
	}
	return decodeMessage(resp.body)
}

// PostSolarForm uploads a consumption file together with the PV
// installation parameters and returns the new analysis ID.
func (c *Client) PostSolarForm(ctx context.Context, file ports.Upload, params analysis.SolarParameters) (core.AnalysisID, error) {
	if err := params.Validate(); err != nil {
		return "", errors.ValidationError(err.Error())
	}
	resp, err := c.postMultipart(ctx, solarPath+"/process-file", file, params.FormFields())
	if err != nil {
		return "", errors.Wrap(err, "failed to upload solar form")
	}
	id, err := decodeAnalysisID(resp.body)
	if err != nil {
		return "", err
	}
	c.logger.Info("uploaded solar file %q for %s as analysis %s", file.Filename, params.Location, id)
	return id, nil
}

// ListSolarAnalyses lists the solar analyses known to the service
func (c *Client) ListSolarAnalyses(ctx context.Context) ([]analysis.Summary, error) {
	resp, err := c.get(ctx, solarPath+"/analysis")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list solar analyses")
	}
	return decodeSummaries(resp.body, analysis.KindSolar)
}

// SolarConsumptionProductionPlot returns the monthly consumption vs
// production chart as an inline PNG.
func (c *Client) SolarConsumptionProductionPlot(ctx context.Context, id core.AnalysisID) (analysis.PlotImage, error) {
	resp, err := c.get(ctx, analysisPath(solarPath+"/monthly_consumption_production_plot", id))
	if err != nil {
		return analysis.PlotImage{}, errors.Wrapf(err, "failed to fetch consumption/production plot of %s", id)
	}
	return pngImage("consumption_production.png", resp.body), nil
}

// SolarMonthlyPlots returns the per-month charts shipped as a zip archive
func (c *Client) SolarMonthlyPlots(ctx context.Context, id core.AnalysisID) ([]analysis.PlotImage, error) {
	resp, err := c.get(ctx, analysisPath(solarPath+"/results_monthly_plots", id))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch monthly plots of %s", id)
	}
	images, err := ExtractImages(resp.body)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, resp.status, err)
	}
	return images, nil
}

// SolarSelfPercentRatios returns the monthly self-consumption ratios
func (c *Client) SolarSelfPercentRatios(ctx context.Context, id core.AnalysisID) (analysis.SelfPercentRatios, error) {
	resp, err := c.get(ctx, analysisPath(solarPath+"/self_percent_ratios", id))
	if err != nil {
		return analysis.SelfPercentRatios{}, errors.Wrapf(err, "failed to fetch ratios of %s", id)
	}
	return decodeRatios(resp.body)
}

// SolarMonthlyProduction returns the monthly production table
func (c *Client) SolarMonthlyProduction(ctx context.Context, id core.AnalysisID) (string, error) {
	resp, err := c.get(ctx, analysisPath(solarPath+"/monthly_production", id))
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch monthly production of %s", id)
	}
	return string(resp.body), nil
}

// SolarMonthlyConsumption returns the monthly consumption table
func (c *Client) SolarMonthlyConsumption(ctx context.Context, id core.AnalysisID) (string, error) {
	resp, err := c.get(ctx, analysisPath(solarPath+"/monthly_consumption", id))
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch monthly consumption of %s", id)
	}
	return string(resp.body), nil
}
