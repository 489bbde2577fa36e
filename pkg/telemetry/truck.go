package telemetry

type TruckConfig struct {
	BrandID                 string                        `json:"brandId"`
	Brand                   string                        `json:"brand"`
	ID                      string                        `json:"id"`
	Name                    string                        `json:"name"`
	FuelCapacity            float64                       `json:"fuelCapacity"`
	FuelWarningFactor       float64                       `json:"fuelWarningFactor"`
	AdblueCapacity          float64                       `json:"adblueCapacity"`
	AdblueWarningFactor     float64                       `json:"adblueWarningFactor"`
	AirPressureWarning      float64                       `json:"airPressureWarning"`
	AirPressureEmergency    float64                       `json:"airPressureEmergency"`
	OilPressureWarning      float64                       `json:"oilPressureWarning"`
	WaterTemperatureWarning float64                       `json:"waterTemperatureWarning"`
	BatteryVoltageWarning   float64                       `json:"batteryVoltageWarning"`
	RPMLimit                float64                       `json:"rpmLimit"`
	ForwardGearCount        uint32                        `json:"forwardGearCount"`
	ReverseGearCount        uint32                        `json:"reverseGearCount"`
	ForwardGearRatios       [MaxForwardGearRatios]float64 `json:"forwardGearRatios"`
	ReverseGearRatios       [MaxReverseGearRatios]float64 `json:"reverseGearRatios"`
	DifferentialRatio       float64                       `json:"differentialRatio"`
	RetarderStepCount       uint32                        `json:"retarderStepCount"`
	CabinPosition           Vec3                          `json:"cabinPosition"`
	HookPosition            Vec3                          `json:"hookPosition"`
	HeadPosition            Vec3                          `json:"headPosition"`
	LicensePlate            string                        `json:"licensePlate"`
	LicensePlateCountry     string                        `json:"licensePlateCountry"`
	LicensePlateCountryID   string                        `json:"licensePlateCountryId"`
	WheelCount              uint32                        `json:"wheelCount"`
	ShifterType             string                        `json:"shifterType"`
}

type TruckCabin struct {
	Offset              Placement `json:"offset"`
	AngularAcceleration Vec3      `json:"angularAcceleration"`
	AngularVelocity     Vec3      `json:"angularVelocity"`
}

// TruckInput is used for both raw player input and the effective values.
type TruckInput struct {
	Brake    float64 `json:"brake"`
	Throttle float64 `json:"throttle"`
	Clutch   float64 `json:"clutch"`
	Steering float64 `json:"steering"`
}

type TruckBrake struct {
	Retarder             uint32  `json:"retarder"`
	Parking              bool    `json:"parking"`
	Motor                bool    `json:"motor"`
	AirPressure          float64 `json:"airPressure"`
	AirPressureWarning   bool    `json:"airPressureWarning"`
	AirPressureEmergency bool    `json:"airPressureEmergency"`
	Temperature          float64 `json:"temperature"`
}

type TruckFuel struct {
	Amount             float64 `json:"amount"`
	Range              float64 `json:"range"`
	AverageConsumption float64 `json:"averageConsumption"`
	Warning            bool    `json:"warning"`
}

type TruckEngine struct {
	RPM     float64 `json:"rpm"`
	Gear    int32   `json:"gear"`
	Enabled bool    `json:"enabled"`
}

type TruckOil struct {
	Pressure        float64 `json:"pressure"`
	Temperature     float64 `json:"temperature"`
	PressureWarning bool    `json:"pressureWarning"`
}

type TruckAdblue struct {
	Amount             float64 `json:"amount"`
	AverageConsumption float64 `json:"averageConsumption"`
	Warning            bool    `json:"warning"`
}

type TruckLight struct {
	LeftBlinker  bool   `json:"leftBlinker"`
	RightBlinker bool   `json:"rightBlinker"`
	Parking      bool   `json:"parking"`
	LowBeam      bool   `json:"lowBeam"`
	HighBeam     bool   `json:"highBeam"`
	AuxFront     uint32 `json:"auxFront"`
	AuxRoof      uint32 `json:"auxRoof"`
	Beacon       bool   `json:"beacon"`
	Brake        bool   `json:"brake"`
	Reverse      bool   `json:"reverse"`
}

type TruckWear struct {
	Engine       float64 `json:"engine"`
	Transmission float64 `json:"transmission"`
	Cabin        float64 `json:"cabin"`
	Chassis      float64 `json:"chassis"`
	Wheels       float64 `json:"wheels"`
}

type TruckNavigation struct {
	Distance   float64 `json:"distance"`
	Time       float64 `json:"time"`
	SpeedLimit float64 `json:"speed_limit"`
}

// Truck is the player's vehicle.
type Truck struct {
	Config                   TruckConfig          `json:"config"`
	WorldPlacement           Placement            `json:"worldPlacement"`
	LocalLinearVelocity      Vec3                 `json:"localLinearVelocity"`
	LocalAngularVelocity     Vec3                 `json:"localAngularVelocity"`
	LocalLinearAcceleration  Vec3                 `json:"localLinearAcceleration"`
	LocalAngularAcceleration Vec3                 `json:"localAngularAcceleration"`
	Cabin                    TruckCabin           `json:"cabin"`
	HeadOffset               Placement            `json:"headOffset"`
	Speed                    float64              `json:"speed"`
	Engine                   TruckEngine          `json:"engine"`
	DisplayedGear            int32                `json:"displayedGear"`
	Input                    TruckInput           `json:"input"`
	Effective                TruckInput           `json:"effective"`
	CruiseControl            float64              `json:"cruiseControl"`
	Brake                    TruckBrake           `json:"brake"`
	Fuel                     TruckFuel            `json:"fuel"`
	Adblue                   TruckAdblue          `json:"adblue"`
	Oil                      TruckOil             `json:"oil"`
	WaterTemperature         float64              `json:"waterTemperature"`
	WaterTemperatureWarning  bool                 `json:"waterTemperatureWarning"`
	BatteryVoltage           float64              `json:"batteryVoltage"`
	BatteryVoltageWarning    bool                 `json:"batteryVoltageWarning"`
	ElectricEnabled          bool                 `json:"electricEnabled"`
	LeftBlinker              bool                 `json:"leftBlinker"`
	RightBlinker             bool                 `json:"rightBlinker"`
	HazardWarning            bool                 `json:"hazardWarning"`
	DifferentialLock         bool                 `json:"differentialLock"`
	Light                    TruckLight           `json:"light"`
	Wipers                   bool                 `json:"wipers"`
	DashboardBacklight       float64              `json:"dashboardBacklight"`
	LiftAxle                 bool                 `json:"liftAxle"`
	LiftAxleIndicator        bool                 `json:"liftAxleIndicator"`
	TrailerLiftAxle          bool                 `json:"trailerLiftAxle"`
	TrailerLiftAxleIndicator bool                 `json:"trailerLiftAxleIndicator"`
	Wheels                   [MaxWheelCount]Wheel `json:"wheels"`
	Wear                     TruckWear            `json:"wear"`
	Odometer                 float64              `json:"odometer"`
	Navigation               TruckNavigation      `json:"navigation"`
}
