package dataset

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/skrub-data/skrubpack/internal/fetch"
)

// Entry pairs a dataset name with its loader.
type Entry struct {
	Name string
	Load func(ctx context.Context, c *fetch.Client) (*Dataset, error)
}

// simpleSpecs lists the hosted-CSV datasets that only need their target
// column appended, sorted by fetcher identifier. The order is part of the
// output contract: the checksum manifest lists these first, in this order.
var simpleSpecs = []fetch.SimpleSpec{
	{
		Fetcher:     "fetch_drug_directory",
		File:        "drug_directory.csv",
		Target:      "PRODUCTTYPENAME",
		Description: "Product listings from the National Drug Code Directory.",
	},
	{
		Fetcher:     "fetch_employee_salaries",
		File:        "employee_salaries.csv",
		Target:      "current_annual_salary",
		Description: "Annual salary information for employees of Montgomery County, MD.",
	},
	{
		Fetcher:     "fetch_medical_charge",
		File:        "medical_charge.csv",
		Target:      "Average_Total_Payments",
		Description: "Inpatient discharges for Medicare beneficiaries, with average charges and payments.",
	},
	{
		Fetcher:     "fetch_midwest_survey",
		File:        "midwest_survey.csv",
		Target:      "Census_Region",
		Description: "Survey to know if people self-identify as Midwesterners.",
	},
	{
		Fetcher:     "fetch_open_payments",
		File:        "open_payments.csv",
		Target:      "status",
		Description: "Payments given by healthcare manufacturing companies to medical doctors or hospitals.",
	},
	{
		Fetcher:     "fetch_road_safety",
		File:        "road_safety.csv",
		Target:      "Sex_of_Driver",
		Description: "Data reported to the police about the circumstances of personal injury road accidents in Great Britain.",
	},
	{
		Fetcher:     "fetch_toxicity",
		File:        "toxicity.csv",
		Target:      "is_toxic",
		Description: "Comments from social media platforms, annotated as toxic or not.",
	},
	{
		Fetcher:     "fetch_traffic_violations",
		File:        "traffic_violations.csv",
		Target:      "violation_type",
		Description: "Traffic violations in Montgomery County, MD.",
	},
}

// Pinned upstream file ids for the composite datasets.
const (
	creditFraudBasketsID  = "48024838"
	creditFraudProductsID = "48024835"

	flightsFlightsID  = "41771418"
	flightsAirportsID = "41710257"
	flightsWeatherID  = "41771457"
	flightsStationsID = "41710524"
)

// Entries returns every dataset in processing order: the simple datasets
// first, then the composite datasets in a fixed sequence. The order is
// static so that manifest output is reproducible across runs.
func Entries() []Entry {
	entries := make([]Entry, 0, len(simpleSpecs)+6)
	for _, spec := range simpleSpecs {
		spec := spec
		entries = append(entries, Entry{
			Name: spec.Name(),
			Load: func(ctx context.Context, c *fetch.Client) (*Dataset, error) {
				return LoadSimple(ctx, c, spec)
			},
		})
	}
	entries = append(entries,
		Entry{Name: "credit_fraud", Load: loadCreditFraud},
		Entry{Name: "country_happiness", Load: loadCountryHappiness},
		Entry{Name: "movielens", Load: loadMovieLens},
		Entry{Name: "bike_sharing", Load: loadBikeSharing},
		Entry{Name: "videogame_sales", Load: loadVideogameSales},
		Entry{Name: "flight_delays", Load: loadFlightDelays},
	)
	return entries
}

// LoadSimple fetches a simple dataset and appends its target vector to the
// feature table as a new last column.
func LoadSimple(ctx context.Context, c *fetch.Client, spec fetch.SimpleSpec) (*Dataset, error) {
	res, err := c.Simple(ctx, spec)
	if err != nil {
		return nil, err
	}

	df := res.X.Mutate(res.Y)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to append target column %q: %w", res.Target, df.Err)
	}

	name := res.Name
	if name == "" {
		name = spec.Name()
	}

	return &Dataset{
		Name:   name,
		Tables: map[string]dataframe.DataFrame{name: df},
		Meta: Metadata{
			Name:        name,
			Description: res.Description,
			Source:      sourceOf(res.Source),
			Target:      res.Target,
		},
	}, nil
}

func loadCreditFraud(ctx context.Context, c *fetch.Client) (*Dataset, error) {
	baskets, err := c.Figshare(ctx, creditFraudBasketsID)
	if err != nil {
		return nil, err
	}
	products, err := c.Figshare(ctx, creditFraudProductsID)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Name: "credit_fraud",
		Tables: map[string]dataframe.DataFrame{
			"baskets":  baskets,
			"products": products,
		},
		Meta: Metadata{
			Name:        "credit_fraud",
			Description: "An e-commerce dataset of purchased baskets and their products, with a fraud flag per basket.",
			Source:      Source{c.FigshareBaseURL + "/" + creditFraudBasketsID},
			Target:      "fraud_flag",
		},
	}, nil
}

func loadCountryHappiness(ctx context.Context, c *fetch.Client) (*Dataset, error) {
	happiness, err := c.Table(ctx, c.DataBaseURL+"/Happiness_report_2022.csv",
		fetch.TableOptions{TrimThousands: true})
	if err != nil {
		return nil, err
	}
	// The report ends with an aggregate row that is not a country.
	happiness = dropLastRow(happiness)
	if happiness.Err != nil {
		return nil, fmt.Errorf("failed to drop trailing aggregate row: %w", happiness.Err)
	}

	gdp, err := c.WorldBankIndicator(ctx, "NY.GDP.PCAP.CD")
	if err != nil {
		return nil, err
	}
	life, err := c.WorldBankIndicator(ctx, "SP.DYN.LE00.IN")
	if err != nil {
		return nil, err
	}
	legal, err := c.WorldBankIndicator(ctx, "IC.LGL.CRED.XQ")
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Name: "country_happiness",
		Tables: map[string]dataframe.DataFrame{
			"happiness_report":   happiness,
			"GDP_per_capita":     gdp,
			"life_expectancy":    life,
			"legal_rights_index": legal,
		},
		Meta: Metadata{
			Name: "happiness_score",
			Description: "Happiness score and relevant country data from the World Bank API. " +
				"The table 'happiness_report' comes from the 2022 World Happiness Report " +
				"worldhappiness.report, all other tables come from the World Bank " +
				"open data platform worldbank.org",
			Source: Source{
				"https://api.worldbank.org/v2/",
				"https://worldhappiness.report/",
			},
		},
	}, nil
}

func loadMovieLens(ctx context.Context, c *fetch.Client) (*Dataset, error) {
	movies, err := c.MovieLens(ctx, "movies")
	if err != nil {
		return nil, err
	}
	ratings, err := c.MovieLens(ctx, "ratings")
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Name: "movielens",
		Tables: map[string]dataframe.DataFrame{
			"movies":  movies,
			"ratings": ratings,
		},
		Meta: Metadata{
			Name:        fetch.MovieLensName,
			Description: fetch.MovieLensDescription,
			Source:      Source{c.MovieLensURL},
		},
	}, nil
}

func loadBikeSharing(ctx context.Context, c *fetch.Client) (*Dataset, error) {
	df, err := c.Table(ctx, c.DataBaseURL+"/bike-sharing-dataset.csv", fetch.TableOptions{})
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Name:   "bike_sharing",
		Tables: map[string]dataframe.DataFrame{"bike_sharing": df},
		Meta: Metadata{
			Name:   "bike_sharing",
			Target: "cnt",
		},
	}, nil
}

func loadVideogameSales(ctx context.Context, c *fetch.Client) (*Dataset, error) {
	df, err := c.Table(ctx, c.VGSalesURL, fetch.TableOptions{
		Delimiter:   ';',
		SkipBadRows: true,
	})
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Name:   "videogame_sales",
		Tables: map[string]dataframe.DataFrame{"videogame_sales": df},
		Meta: Metadata{
			Name:   "videogame_sales",
			Source: Source{c.VGSalesURL},
			Target: "Global_Sales",
		},
	}, nil
}

func loadFlightDelays(ctx context.Context, c *fetch.Client) (*Dataset, error) {
	tables := map[string]dataframe.DataFrame{}
	for _, t := range []struct {
		stem string
		id   string
	}{
		{"flights", flightsFlightsID},
		{"airports", flightsAirportsID},
		{"weather", flightsWeatherID},
		{"stations", flightsStationsID},
	} {
		df, err := c.Figshare(ctx, t.id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s table: %w", t.stem, err)
		}
		tables[t.stem] = df
	}
	return &Dataset{
		Name:   "flight_delays",
		Tables: tables,
		Meta:   Metadata{Name: "flight_delays"},
	}, nil
}

func sourceOf(url string) Source {
	if url == "" {
		return nil
	}
	return Source{url}
}

func dropLastRow(df dataframe.DataFrame) dataframe.DataFrame {
	n := df.Nrow()
	if n == 0 {
		return df
	}
	idx := make([]int, n-1)
	for i := range idx {
		idx[i] = i
	}
	return df.Subset(idx)
}
