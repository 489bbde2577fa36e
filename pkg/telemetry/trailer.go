package telemetry

type TrailerConfig struct {
	ID                    string `json:"id"`
	CargoAccessoryID      string `json:"cargoAccessoryId"`
	HookPosition          Vec3   `json:"hookPosition"`
	BrandID               string `json:"brandId"`
	Brand                 string `json:"brand"`
	Name                  string `json:"name"`
	LicensePlate          string `json:"licensePlate"`
	LicensePlateCountry   string `json:"licensePlateCountry"`
	LicensePlateCountryID string `json:"licensePlateCountryId"`
	ChainType             string `json:"chainType"`
	BodyType              string `json:"bodyType"`
	WheelCount            uint32 `json:"wheelCount"`
}

type TrailerWear struct {
	Body    float64 `json:"body"`
	Chassis float64 `json:"chassis"`
	Wheels  float64 `json:"wheels"`
}

// Trailer is one slot of the trailer chain.
type Trailer struct {
	Config                   TrailerConfig        `json:"config"`
	WorldPlacement           Placement            `json:"worldPlacement"`
	LocalLinearVelocity      Vec3                 `json:"localLinearVelocity"`
	LocalAngularVelocity     Vec3                 `json:"localAngularVelocity"`
	LocalLinearAcceleration  Vec3                 `json:"localLinearAcceleration"`
	LocalAngularAcceleration Vec3                 `json:"localAngularAcceleration"`
	Wear                     TrailerWear          `json:"wear"`
	Connected                bool                 `json:"connected"`
	CargoDamage              float64              `json:"cargoDamage"`
	Wheels                   [MaxWheelCount]Wheel `json:"wheels"`
}

// Job is the currently accepted delivery, zero when there is none.
type Job struct {
	CargoID              string  `json:"cargoId"`
	Cargo                string  `json:"cargo"`
	CargoUnitCount       uint32  `json:"cargoUnitCount"`
	CargoMass            float64 `json:"cargoMass"`
	CargoUnitMass        float64 `json:"cargoUnitMass"`
	DeliveryTime         uint32  `json:"deliveryTime"`
	PlannedDistance      uint32  `json:"plannedDistance"`
	Income               uint64  `json:"income"`
	DestinationCity      string  `json:"destinationCity"`
	DestinationCityID    string  `json:"destinationCityId"`
	SourceCity           string  `json:"sourceCity"`
	SourceCityID         string  `json:"sourceCityId"`
	DestinationCompany   string  `json:"destinationCompany"`
	DestinationCompanyID string  `json:"destinationCompanyId"`
	SourceCompany        string  `json:"sourceCompany"`
	SourceCompanyID      string  `json:"sourceCompanyId"`
	JobMarket            string  `json:"jobMarket"`
	IsCargoLoaded        bool    `json:"isCargoLoaded"`
	IsSpecialJob         bool    `json:"isSpecialJob"`
	CargoDamage          float64 `json:"cargoDamage"`
}
