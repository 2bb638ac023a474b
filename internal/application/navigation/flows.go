package navigation

import "fmt"

// Charge information steps
const (
	StepReason             StepID = "reason"
	StepStartDate          StepID = "start-date"
	StepBillingAccount     StepID = "billing-account"
	StepUseAbstractionData StepID = "use-abstraction-data"
	StepNote               StepID = "note"
)

// Charge element and charge purpose steps
const (
	StepPurpose     StepID = "purpose"
	StepDescription StepID = "description"
	StepAbstraction StepID = "abstraction"
	StepQuantities  StepID = "quantities"
	StepTimeLimit   StepID = "time"
	StepSource      StepID = "source"
	StepSeason      StepID = "season"
	StepLoss        StepID = "loss"
	StepAgreements  StepID = "agreements"
)

// Charge category steps
const (
	StepVolume                 StepID = "volume"
	StepWaterAvailability      StepID = "which-water-availability"
	StepWaterModel             StepID = "water-model"
	StepAdjustmentsApply       StepID = "adjustments-apply"
	StepAdjustments            StepID = "adjustments"
	StepAdditionalChargesApply StepID = "additional-charges-apply"
	StepIsSupportedSource      StepID = "is-supported-source"
	StepSupportedSourceName    StepID = "supported-source-name"
	StepIsSupplyPublicWater    StepID = "is-supply-public-water"
)

var graphs = map[Flow]*Graph{
	FlowChargeInformation: chargeInformationGraph(),
	FlowNote:              noteGraph(),
	FlowChargeElement:     chargeElementGraph(),
	FlowChargeCategory:    chargeCategoryGraph(),
	FlowChargePurpose:     chargePurposeGraph(),
}

// For returns the graph of a flow
func For(flow Flow) (*Graph, error) {
	g, ok := graphs[flow]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFlow, flow)
	}
	return g, nil
}

// Flows returns every configured flow
func Flows() []Flow {
	return []Flow{FlowChargeInformation, FlowNote, FlowChargeElement, FlowChargeCategory, FlowChargePurpose}
}

// ValidateAll validates every graph
func ValidateAll() error {
	for _, flow := range Flows() {
		if err := graphs[flow].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func chargeInformationGraph() *Graph {
	return &Graph{
		Flow:  FlowChargeInformation,
		Order: []StepID{StepReason, StepStartDate, StepBillingAccount, StepUseAbstractionData},
		Steps: map[StepID]StepConfig{
			StepReason: {
				Title: "Select reason for new charge information",
				Next:  StepStartDate,
			},
			StepStartDate: {
				Title:        "Set charge start date",
				Back:         StepReason,
				Next:         StepBillingAccount,
				RestartsFlow: true,
			},
			StepBillingAccount: {
				Title: "Select an existing billing account",
				Back:  StepStartDate,
				Next:  StepUseAbstractionData,
			},
			StepUseAbstractionData: {
				Title: "Use abstraction data to set up the element?",
				Back:  StepBillingAccount,
			},
		},
	}
}

func noteGraph() *Graph {
	return &Graph{
		Flow:  FlowNote,
		Order: []StepID{StepNote},
		Steps: map[StepID]StepConfig{
			StepNote: {Title: "Add a note"},
		},
	}
}

func chargeElementGraph() *Graph {
	return &Graph{
		Flow: FlowChargeElement,
		Order: []StepID{
			StepPurpose, StepDescription, StepAbstraction, StepQuantities, StepTimeLimit,
			StepSource, StepSeason, StepLoss, StepAgreements,
		},
		Steps: map[StepID]StepConfig{
			StepPurpose:     {Title: "Select a purpose use", Next: StepDescription},
			StepDescription: {Title: "Add element description", Back: StepPurpose, Next: StepAbstraction},
			StepAbstraction: {Title: "Set abstraction period", Back: StepDescription, Next: StepQuantities},
			StepQuantities:  {Title: "Add licence quantities", Back: StepAbstraction, Next: StepTimeLimit},
			StepTimeLimit:   {Title: "Set time limit?", Back: StepQuantities, Next: StepSource},
			StepSource:      {Title: "Select source", Back: StepTimeLimit, Next: StepSeason},
			StepSeason:      {Title: "Select season", Back: StepSource, Next: StepLoss},
			StepLoss: {
				Title: "Select loss category",
				Back:  StepSeason,
				NextFunc: func(req Request) StepID {
					if req.Element().IsTwoPartTariff() {
						return StepAgreements
					}
					return End
				},
			},
			StepAgreements: {Title: "Is a two-part tariff agreement applicable?", Back: StepLoss},
		},
	}
}

func chargeCategoryGraph() *Graph {
	return &Graph{
		Flow: FlowChargeCategory,
		Order: []StepID{
			StepDescription, StepSource, StepLoss, StepVolume, StepWaterAvailability, StepWaterModel,
			StepAdjustmentsApply, StepAdjustments, StepAdditionalChargesApply,
			StepIsSupportedSource, StepSupportedSourceName, StepIsSupplyPublicWater,
		},
		Steps: map[StepID]StepConfig{
			StepDescription:       {Title: "Enter a description for the charge reference", Next: StepSource},
			StepSource:            {Title: "Select the source", Back: StepDescription, Next: StepLoss},
			StepLoss:              {Title: "Select the loss category", Back: StepSource, Next: StepVolume},
			StepVolume:            {Title: "Enter the total quantity to use for this charge reference", Back: StepLoss, Next: StepWaterAvailability},
			StepWaterAvailability: {Title: "Select the water availability", Back: StepVolume, Next: StepWaterModel},
			StepWaterModel:        {Title: "Select the water modelling charge", Back: StepWaterAvailability, Next: StepAdjustmentsApply},
			StepAdjustmentsApply: {
				Title: "Do adjustments apply?",
				Back:  StepWaterModel,
				NextFunc: func(req Request) StepID {
					if isFalse(req.Element().IsAdjustments) {
						return StepAdditionalChargesApply
					}
					return StepAdjustments
				},
			},
			StepAdjustments: {Title: "Which adjustments apply?", Back: StepAdjustmentsApply, Next: StepAdditionalChargesApply},
			StepAdditionalChargesApply: {
				Title: "Do additional charges apply?",
				BackFunc: func(req Request) StepID {
					if isFalse(req.Element().IsAdjustments) {
						return StepAdjustmentsApply
					}
					return StepAdjustments
				},
				NextFunc: func(req Request) StepID {
					if isFalse(req.Element().IsAdditionalCharges) {
						return End
					}
					return StepIsSupportedSource
				},
			},
			StepIsSupportedSource: {
				Title: "Is abstraction from a supported source?",
				Back:  StepAdditionalChargesApply,
				NextFunc: func(req Request) StepID {
					if isFalse(req.Element().IsSupportedSource) {
						return StepIsSupplyPublicWater
					}
					return StepSupportedSourceName
				},
			},
			StepSupportedSourceName: {Title: "Select the name of the supported source", Back: StepIsSupportedSource, Next: StepIsSupplyPublicWater},
			StepIsSupplyPublicWater: {
				Title: "Is abstraction for the supply of public water?",
				BackFunc: func(req Request) StepID {
					if isFalse(req.Element().IsSupportedSource) {
						return StepIsSupportedSource
					}
					return StepSupportedSourceName
				},
			},
		},
	}
}

func chargePurposeGraph() *Graph {
	return &Graph{
		Flow: FlowChargePurpose,
		Order: []StepID{
			StepPurpose, StepDescription, StepAbstraction, StepQuantities, StepTimeLimit, StepSeason, StepLoss,
		},
		Steps: map[StepID]StepConfig{
			StepPurpose:     {Title: "Select a purpose use", Next: StepDescription},
			StepDescription: {Title: "Add element description", Back: StepPurpose, Next: StepAbstraction},
			StepAbstraction: {Title: "Set abstraction period", Back: StepDescription, Next: StepQuantities},
			StepQuantities:  {Title: "Add licence quantities", Back: StepAbstraction, Next: StepTimeLimit},
			StepTimeLimit:   {Title: "Set time limit?", Back: StepQuantities, Next: StepSeason},
			StepSeason:      {Title: "Select season", Back: StepTimeLimit, Next: StepLoss},
			StepLoss:        {Title: "Select loss category", Back: StepSeason},
		},
	}
}

// isFalse reports an explicit "no" answer; an unanswered question is not false
func isFalse(b *bool) bool {
	return b != nil && !*b
}
