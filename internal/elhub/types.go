package elhub

import (
	"time"
)

// Dataset names accepted by the Elhub energy-data API price-areas
// endpoint.
const (
	DatasetConsumptionPerGroupMBAHour = "CONSUMPTION_PER_GROUP_MBA_HOUR"
	DatasetProductionPerGroupMBAHour  = "PRODUCTION_PER_GROUP_MBA_HOUR"
)

// AreaQuantity is the aggregated metered volume for one price area over
// the queried range.
type AreaQuantity struct {
	PriceArea   string  `json:"pricearea"`
	MeanKWh     float64 `json:"quantitykwh"`
	MeanMWh     float64 `json:"quantitymwh"`
	RecordCount int     `json:"record_count"`
}

// energyDataResponse mirrors the JSON:API shaped response of the Elhub
// energy-data price-areas endpoint.
type energyDataResponse struct {
	Data []priceAreaResource `json:"data"`
}

type priceAreaResource struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes priceAreaAttrs `json:"attributes"`
}

type priceAreaAttrs struct {
	ConsumptionPerGroupMBAHour []quantityRecord `json:"consumptionPerGroupMbaHour"`
	ProductionPerGroupMBAHour  []quantityRecord `json:"productionPerGroupMbaHour"`
}

type quantityRecord struct {
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	QuantityKWh      float64   `json:"quantityKwh"`
	ConsumptionGroup string    `json:"consumptionGroup"`
	ProductionGroup  string    `json:"productionGroup"`
}

// records returns whichever quantity series the dataset populated.
func (a *priceAreaAttrs) records() []quantityRecord {
	if len(a.ConsumptionPerGroupMBAHour) > 0 {
		return a.ConsumptionPerGroupMBAHour
	}
	return a.ProductionPerGroupMBAHour
}
