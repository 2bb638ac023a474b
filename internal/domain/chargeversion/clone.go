package chargeversion

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy of the draft that shares no memory with d
func (d Draft) Clone() Draft {
	out := d
	out.ChangeReason = clonePtr(d.ChangeReason)
	if d.DateRange != nil {
		dr := *d.DateRange
		dr.EndDate = clonePtr(d.DateRange.EndDate)
		out.DateRange = &dr
	}
	if d.BillingAccount != nil {
		ba := *d.BillingAccount
		ba.Address = clonePtr(d.BillingAccount.Address)
		out.BillingAccount = &ba
	}
	out.Note = clonePtr(d.Note)
	if d.ChargeElements != nil {
		out.ChargeElements = make([]ChargeElement, len(d.ChargeElements))
		for i, e := range d.ChargeElements {
			out.ChargeElements[i] = e.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the element
func (e ChargeElement) Clone() ChargeElement {
	out := e
	out.ChargePurpose = e.ChargePurpose.Clone()
	out.Volume = clonePtr(e.Volume)
	out.IsAdjustments = clonePtr(e.IsAdjustments)
	out.Adjustments = Adjustments{
		Aggregate: clonePtr(e.Adjustments.Aggregate),
		Charge:    clonePtr(e.Adjustments.Charge),
		S126:      clonePtr(e.Adjustments.S126),
		S127:      e.Adjustments.S127,
		S130:      e.Adjustments.S130,
		Winter:    e.Adjustments.Winter,
	}
	out.IsAdditionalCharges = clonePtr(e.IsAdditionalCharges)
	out.IsSupportedSource = clonePtr(e.IsSupportedSource)
	out.IsSupplyPublicWater = clonePtr(e.IsSupplyPublicWater)
	out.ChargeCategory = clonePtr(e.ChargeCategory)
	if e.ChargePurposes != nil {
		out.ChargePurposes = make([]ChargePurpose, len(e.ChargePurposes))
		for i, p := range e.ChargePurposes {
			out.ChargePurposes[i] = p.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the purpose
func (p ChargePurpose) Clone() ChargePurpose {
	out := p
	out.PurposePrimary = clonePtr(p.PurposePrimary)
	out.PurposeSecondary = clonePtr(p.PurposeSecondary)
	out.PurposeUse = clonePtr(p.PurposeUse)
	out.AbstractionPeriod = clonePtr(p.AbstractionPeriod)
	out.AuthorisedAnnualQuantity = clonePtr(p.AuthorisedAnnualQuantity)
	out.BillableAnnualQuantity = clonePtr(p.BillableAnnualQuantity)
	out.TimeLimitedPeriod = clonePtr(p.TimeLimitedPeriod)
	return out
}
