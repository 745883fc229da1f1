package catalog

import "github.com/ppiankov/scirap/internal/model"

// Keywords are written in normalized form: punctuation such as "%" or "="
// never survives normalization, so "n=1" is authored as "n1". Matching is by
// substring, so a bare "um" (µM) would also hit "medium" and "serum"; the
// unit is matched as "micromolar" or within "high um" instead.

func reporting(key, question string, strong, weak []string) model.Rule {
	return model.Rule{Key: key, Kind: model.KindReporting, Question: question, Strong: strong, Weak: weak}
}

func methodological(key, question string, strong, weak, contradict []string) model.Rule {
	return model.Rule{Key: key, Kind: model.KindMethodological, Question: question, Strong: strong, Weak: weak, Contradict: contradict}
}

func relevance(key, question string, direct, indirect, notRelevant []string) model.Rule {
	return model.Rule{Key: key, Kind: model.KindRelevance, Question: question, Direct: direct, Indirect: indirect, NotRelevant: notRelevant}
}

// defaultRules returns the built-in in-vitro study rubric (RQ1-RQ24, MQ1-MQ16, R1-R4)
func defaultRules() []model.Rule {
	return []model.Rule{
		// Reporting Quality
		reporting("RQ1", "Chemical name or identification was given",
			[]string{"cas", "chemical name", "cas number", "iupac", "molecular formula", "structure"},
			[]string{"test compound", "compound", "chemical obtained", "purchased from"}),
		reporting("RQ2", "Purity was stated or traceable",
			[]string{"high purity", "certificate of analysis", "hplc", "purity 99", "purity of 99", "99 pure", "batch number", "lot number"},
			[]string{"purity", "purchased from", "supplied by"}),
		reporting("RQ3", "Solubility was described",
			[]string{"solubility", "soluble in", "solubility test"},
			[]string{"dissolved", "prepared in"}),
		reporting("RQ4", "Solvent (vehicle) was described",
			[]string{"dmso", "ethanol", "pbs", "solvent", "vehicle"},
			[]string{"carrier"}),
		reporting("RQ5", "Solvent (vehicle) control included",
			[]string{"vehicle control", "solvent control"},
			[]string{"control group"}),
		reporting("RQ6", "Test system described",
			[]string{"cell line", "primary cells", "tissue", "organ culture", "embryo"},
			[]string{"cells used", "in vitro model"}),
		reporting("RQ7", "Source of test system stated",
			[]string{"atcc", "supplier", "catalog number", "cat no"},
			[]string{"obtained from", "purchased from"}),
		reporting("RQ8", "Metabolic competence described",
			[]string{"cyp450", "s9 fraction", "metabolic activation"},
			[]string{"metabolize", "biotransformation"}),
		reporting("RQ9", "Cell passage number stated",
			[]string{"passage", "passage number"},
			[]string{"subcultured"}),
		reporting("RQ10", "Media composition described",
			[]string{"dmem", "rpmi", "fbs", "serum", "antibiotic"},
			[]string{"media", "culture medium"}),
		reporting("RQ11", "Incubation conditions described",
			[]string{"37c", "co2", "humidity", "incubator"},
			[]string{"room temperature"}),
		reporting("RQ12", "Contamination control described",
			[]string{"mycoplasma", "contamination check", "sterility test"},
			[]string{"sterile conditions"}),
		reporting("RQ13", "Dose levels stated",
			[]string{"micromolar", "mm", "mg ml", "concentration", "dose"},
			[]string{"treated with"}),
		reporting("RQ14", "Cell density or number stated",
			[]string{"cells well", "seeding density", "cell density"},
			[]string{"cells plated"}),
		reporting("RQ15", "Duration of treatment stated",
			[]string{"24h", "48h", "72h", "exposure time"},
			[]string{"overnight"}),
		reporting("RQ16", "Number of replicates stated",
			[]string{"replicates", "n3", "n4", "n5", "n6", "triplicate", "independent"},
			[]string{"repeated"}),
		reporting("RQ17", "Methods sufficiently described",
			[]string{"protocol", "procedure", "assay method", "analytical method"},
			[]string{"as previously described"}),
		reporting("RQ18", "Time points stated",
			[]string{"time point", "collected at", "measured at"},
			[]string{"over time"}),
		reporting("RQ19", "Cytotoxicity measured",
			[]string{"mtt", "viability", "cytotoxicity", "ldh"},
			[]string{"cell death"}),
		reporting("RQ20", "Results clearly presented",
			[]string{"figure", "table", "results"},
			[]string{"data shown"}),
		reporting("RQ21", "Statistical methods described",
			[]string{"anova", "t test", "p value", "graphpad"},
			[]string{"statistics"}),
		reporting("RQ22", "Funding sources stated",
			[]string{"funded by", "supported by", "grant"},
			[]string{"financial support"}),
		reporting("RQ23", "Competing interests disclosed",
			[]string{
				"no conflict of interest",
				"no conflicts of interest",
				"the authors declare no conflict",
				"the authors declare that they have no conflict of interest",
				"no competing interests",
				"none declared",
				"no financial conflict",
				"no competing financial interests",
			},
			[]string{"conflict of interest", "competing interest"}),
		// Catch-all: always falls through to "No information found."
		reporting("RQ24", "Indispensable information provided", nil, nil),

		// Methodological Quality
		methodological("MQ1", "Impurities unlikely to affect results",
			[]string{"high purity", "hplc", "purity 99", "purity of 99", "99 pure", "no impurities"},
			[]string{"purity", "batch", "lot number"},
			[]string{"impurities", "unknown purity"}),
		methodological("MQ2", "Compound likely soluble",
			[]string{"soluble", "solubility", "fully dissolved"},
			[]string{"dissolved"},
			[]string{"insoluble", "precipitate"}),
		methodological("MQ3", "Appropriate solvent used",
			[]string{"dmso", "ethanol", "pbs"},
			[]string{"solvent"},
			[]string{"toxic solvent"}),
		methodological("MQ4", "Solvent control included",
			[]string{"vehicle control", "solvent control"},
			[]string{"control group"},
			[]string{"no control"}),
		methodological("MQ5", "Positive control included + expected effect",
			[]string{"positive control", "reference compound", "expected response"},
			[]string{"positive"},
			[]string{"no positive control", "failed positive control"}),
		methodological("MQ6", "Reliable + sensitive test system",
			[]string{"validated model", "sensitive assay", "cyp450"},
			[]string{"cell line", "primary cells"},
			[]string{"unreliable"}),
		methodological("MQ7", "Maintenance conditions appropriate",
			[]string{"37c", "co2", "dmem", "fbs", "mycoplasma free"},
			[]string{"incubation", "media"},
			[]string{"contamination"}),
		methodological("MQ8", "Exposure duration suitable",
			[]string{"24h", "48h", "72h"},
			[]string{"treated for"},
			[]string{"insufficient exposure"}),
		methodological("MQ9", "Concentrations suitable",
			[]string{"dose response", "range finding", "multiple concentrations"},
			[]string{"treated with"},
			[]string{"irrelevant concentration", "excessive toxicity"}),
		methodological("MQ10", "Test conditions appropriate",
			[]string{"appropriate media", "serum", "cell density", "temperature"},
			[]string{"culture"},
			[]string{"inappropriate conditions"}),
		methodological("MQ11", "Reliable analytical methods used",
			[]string{"validated method", "sensitivity", "lod", "standard method"},
			[]string{"method", "protocol"},
			[]string{"unvalidated"}),
		methodological("MQ12", "Sufficient replicates",
			[]string{"n3", "n4", "n5", "n6", "triplicate", "biological replicates"},
			[]string{"replicated"},
			[]string{"n1", "single replicate"}),
		methodological("MQ13", "Suitable time points",
			[]string{"time course", "measured at", "multiple time points"},
			[]string{"over time"},
			[]string{"inadequate time points"}),
		methodological("MQ14", "Cytotoxicity measured & acceptable",
			[]string{"mtt", "viability", "cytotoxicity", "noncytotoxic"},
			[]string{"cell death"},
			[]string{"severe cytotoxicity"}),
		methodological("MQ15", "Statistical methods appropriate",
			[]string{"anova", "t test", "p value"},
			[]string{"statistics"},
			[]string{"inappropriate statistics"}),
		methodological("MQ16", "Other reliability factors",
			[]string{"quality control", "validated"},
			[]string{"reliable"},
			[]string{"bias", "experimental flaw"}),

		// Relevance
		relevance("R1", "Identity of the tested substance",
			[]string{
				"pesticide", "insecticide", "herbicide", "fungicide",
				"endocrine disruptor", "bisphenol", "phthalate", "flame retardant",
				"metal", "lead", "arsenic", "cadmium", "mercury",
			},
			[]string{"industrial chemical", "environmental toxicant", "pollution exposure"},
			[]string{
				"pharmaceutical drug", "antidepressant", "vitamin",
				"nutraceutical", "nanomaterial", "hormone therapy", "food additive",
			}),
		relevance("R2", "Test system used",
			[]string{
				"oligodendrocyte", "opc", "myelination", "cns development",
				"prenatal", "perinatal", "early life", "white matter",
				"developmental neurotoxicity",
			},
			[]string{"neuron culture", "mixed glia", "primary brain cells"},
			[]string{
				"cancer cell line", "glioblastoma", "hepg2", "a549",
				"alzheimer", "parkinson", "ms", "adult neurodegeneration",
			}),
		relevance("R3", "Endpoint studied",
			[]string{
				"myelin", "mbp", "olig2", "apoptosis", "oxidative stress",
				"mitochondrial dysfunction", "ros", "cytokine",
				"inflammation", "neurite outgrowth", "cell differentiation",
				"developmental toxicity",
			},
			[]string{"neurotoxicity", "viability", "cytotoxicity", "gene expression"},
			[]string{
				"cancer proliferation", "tumor marker",
				"alzheimer marker", "parkinson marker", "metabolic disease",
			}),
		relevance("R4", "Concentrations used",
			[]string{"nm", "micromolar", "low dose", "physiological dose"},
			[]string{"high um", "supraphysiological dose"},
			[]string{"mm", "millimolar", "extremely high dose", "cytotoxic concentration"}),
	}
}
