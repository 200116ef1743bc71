package rules

// DefaultTradingPool returns the node pool used for evolving trading
// decision rules. Variable selectors follow the analysis report layout:
// technical indicator values, forecast fields and news sentiment are
// encoded into comparable target ranges so thresholds stay meaningful
// across instruments.
func DefaultTradingPool() *NodePool {
	pool := NewNodePool()

	unit := Range{Lower: -1, Upper: 1}

	// Momentum oscillators, rescaled into [-1, 1].
	pool.AddTerminal(TerminalTemplate{
		Name: "rsi_14",
		Type: TypeMomentum,
		Build: func() Node {
			return NewNumericVar("technical.momentum.rsi_14", TypeMomentum, Range{Lower: 0, Upper: 100}, unit)
		},
	})
	pool.AddTerminal(TerminalTemplate{
		Name: "stoch_k_14",
		Type: TypeMomentum,
		Build: func() Node {
			return NewNumericVar("technical.momentum.stoch_k_14", TypeMomentum, Range{Lower: 0, Upper: 100}, unit)
		},
	})
	pool.AddTerminal(TerminalTemplate{
		Name: "macd_hist",
		Type: TypeMomentum,
		Build: func() Node {
			return NewNumericVar("technical.momentum.macd_hist", TypeMomentum, Range{Lower: -5, Upper: 5}, unit)
		},
	})

	// Price-derived percentages.
	pool.AddTerminal(TerminalTemplate{
		Name: "price_vs_sma_50",
		Type: TypePercentage,
		Build: func() Node {
			return NewNumericVar("technical.trend.price_vs_sma_50_pct", TypePercentage, Range{Lower: -30, Upper: 30}, unit)
		},
	})
	pool.AddTerminal(TerminalTemplate{
		Name: "dist_from_high_52w",
		Type: TypePercentage,
		Build: func() Node {
			return NewNumericVar("technical.trend.dist_from_high_52w_pct", TypePercentage, Range{Lower: -100, Upper: 0}, unit)
		},
	})
	pool.AddTerminal(TerminalTemplate{
		Name: "atr_pct",
		Type: TypePercentage,
		Build: func() Node {
			return NewNumericVar("technical.volatility.atr_pct", TypePercentage, Range{Lower: 0, Upper: 15}, unit)
		},
	})

	// Forecast and sentiment fields, categorical where the upstream report
	// labels rather than measures.
	pool.AddTerminal(TerminalTemplate{
		Name: "forecast_trend",
		Type: TypeNumerical,
		Build: func() Node {
			return NewCategoricalVar("forecast.trend.direction", TypeNumerical, map[string]float64{
				"strong_uptrend":   1.0,
				"uptrend":          0.5,
				"sideways":         0.0,
				"downtrend":        -0.5,
				"strong_downtrend": -1.0,
			}, 0.0)
		},
	})
	pool.AddTerminal(TerminalTemplate{
		Name: "news_sentiment",
		Type: TypeNumerical,
		Build: func() Node {
			return NewNumericVar("news.sentiment.score", TypeNumerical, unit, unit)
		},
	})

	// Threshold constants over the shared unit range.
	for _, v := range []float64{-0.8, -0.5, -0.2, 0.0, 0.2, 0.5, 0.8} {
		value := v
		pool.AddTerminal(TerminalTemplate{
			Name:  "threshold",
			Type:  TypeAny,
			Build: func() Node { return NewConstant(value, TypeAny) },
		})
	}

	// Decision signal constants: sell, hold, buy.
	for _, v := range []float64{-1, 0, 1} {
		value := v
		pool.AddTerminal(TerminalTemplate{
			Name:  "decision",
			Type:  TypeDecisionSignal,
			Build: func() Node { return NewConstant(value, TypeDecisionSignal) },
		})
	}

	// Risk and opportunity grades on [0, 1].
	for _, v := range []float64{0.1, 0.5, 0.9} {
		value := v
		pool.AddTerminal(TerminalTemplate{
			Name:  "risk_grade",
			Type:  TypeRiskLevel,
			Build: func() Node { return NewConstant(value, TypeRiskLevel) },
		})
		pool.AddTerminal(TerminalTemplate{
			Name:  "opportunity_grade",
			Type:  TypeOpportunityRating,
			Build: func() Node { return NewConstant(value, TypeOpportunityRating) },
		})
	}

	anyPair := []SemanticType{TypeAny, TypeAny}
	boolPair := []SemanticType{TypeBoolean, TypeBoolean}

	// Arithmetic over any comparable values.
	pool.AddOperator(OperatorTemplate{Name: "add", Kind: OpAdd, Return: TypeNumerical, ChildTypes: anyPair})
	pool.AddOperator(OperatorTemplate{Name: "sub", Kind: OpSub, Return: TypeNumerical, ChildTypes: anyPair})
	pool.AddOperator(OperatorTemplate{Name: "mul", Kind: OpMul, Return: TypeNumerical, ChildTypes: anyPair})
	pool.AddOperator(OperatorTemplate{Name: "div", Kind: OpDiv, Return: TypeNumerical, ChildTypes: anyPair})

	// Comparisons produce booleans; same-type comparisons keep thresholds
	// semantically honest, the any/any forms keep search space open.
	pool.AddOperator(OperatorTemplate{Name: "gt", Kind: OpGT, Return: TypeBoolean, ChildTypes: anyPair})
	pool.AddOperator(OperatorTemplate{Name: "gte", Kind: OpGTE, Return: TypeBoolean, ChildTypes: anyPair})
	pool.AddOperator(OperatorTemplate{Name: "lt", Kind: OpLT, Return: TypeBoolean, ChildTypes: anyPair})
	pool.AddOperator(OperatorTemplate{Name: "lte", Kind: OpLTE, Return: TypeBoolean, ChildTypes: anyPair})
	pool.AddOperator(OperatorTemplate{Name: "gt_momentum", Kind: OpGT, Return: TypeBoolean, ChildTypes: []SemanticType{TypeMomentum, TypeAny}})
	pool.AddOperator(OperatorTemplate{Name: "lt_momentum", Kind: OpLT, Return: TypeBoolean, ChildTypes: []SemanticType{TypeMomentum, TypeAny}})
	pool.AddOperator(OperatorTemplate{Name: "gt_percentage", Kind: OpGT, Return: TypeBoolean, ChildTypes: []SemanticType{TypePercentage, TypeAny}})

	// Boolean combinators.
	pool.AddOperator(OperatorTemplate{Name: "and", Kind: OpAnd, Return: TypeBoolean, ChildTypes: boolPair})
	pool.AddOperator(OperatorTemplate{Name: "or", Kind: OpOr, Return: TypeBoolean, ChildTypes: boolPair})
	pool.AddOperator(OperatorTemplate{Name: "not", Kind: OpNot, Return: TypeBoolean, ChildTypes: []SemanticType{TypeBoolean}})

	// Branching: condition routes to one of two typed branches.
	pool.AddOperator(OperatorTemplate{
		Name: "if_else_decision", Kind: OpIfElse, Return: TypeDecisionSignal,
		ChildTypes: []SemanticType{TypeBoolean, TypeDecisionSignal, TypeDecisionSignal},
	})
	pool.AddOperator(OperatorTemplate{
		Name: "if_else_risk", Kind: OpIfElse, Return: TypeRiskLevel,
		ChildTypes: []SemanticType{TypeBoolean, TypeRiskLevel, TypeRiskLevel},
	})
	pool.AddOperator(OperatorTemplate{
		Name: "if_else_opportunity", Kind: OpIfElse, Return: TypeOpportunityRating,
		ChildTypes: []SemanticType{TypeBoolean, TypeOpportunityRating, TypeOpportunityRating},
	})
	pool.AddOperator(OperatorTemplate{
		Name: "if_else_numerical", Kind: OpIfElse, Return: TypeNumerical,
		ChildTypes: []SemanticType{TypeBoolean, TypeAny, TypeAny},
	})

	return pool
}
