package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
	"github.com/doodlesbykumbi/localauth/pkg/logging"
	"github.com/doodlesbykumbi/localauth/pkg/model"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	dir          string
	harvestErr   error
	response     *http.Response
	responseBody []byte
	hits         []authority.Hit
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "localauth-sources-")
		if err != nil {
			return ctx, err
		}
		s.dir = dir
		return ctx, s.tc.Reset()
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		_ = os.RemoveAll(s.dir)
		return ctx, nil
	})

	// Sources
	sc.Step(`^a source "([^"]*)" containing:$`, s.aSourceContaining)
	sc.Step(`^(\d+) subject entries labelled "([^"]*)"$`, s.subjectEntriesLabelled)

	// Harvest
	sc.Step(`^I harvest RDF authority "([^"]*)" from "([^"]*)"$`, s.iHarvestRDF)
	sc.Step(`^I harvest TSV authority "([^"]*)" from "([^"]*)" with prefix "([^"]*)"$`, s.iHarvestTSV)
	sc.Step(`^I atomically harvest TSV authority "([^"]*)" from "([^"]*)"$`, s.iAtomicallyHarvestTSV)
	sc.Step(`^the harvest should succeed$`, s.theHarvestShouldSucceed)
	sc.Step(`^the harvest should fail with a malformed line$`, s.theHarvestShouldFailWithAMalformedLine)
	sc.Step(`^authority "([^"]*)" should have (\d+) entr(?:y|ies)$`, s.authorityShouldHaveEntries)
	sc.Step(`^authority "([^"]*)" should not exist$`, s.authorityShouldNotExist)
	sc.Step(`^authority "([^"]*)" should contain "([^"]*)" labelled "([^"]*)"$`, s.authorityShouldContain)
	sc.Step(`^I delete authority "([^"]*)"$`, s.iDeleteAuthority)

	// Vocabulary
	sc.Step(`^I register "([^"]*)" for term "([^"]*)" on model "([^"]*)"$`, s.iRegisterForModel)
	sc.Step(`^I register "([^"]*)" for term "([^"]*)" on any model$`, s.iRegisterForAnyModel)
	sc.Step(`^term "([^"]*)" on model "([^"]*)" should have (\d+) bound authorit(?:y|ies)$`, s.termShouldHaveBoundAuthorities)

	// Lookup over HTTP
	sc.Step(`^I search term "([^"]*)" for "([^"]*)"$`, s.iSearch)
	sc.Step(`^I search term "([^"]*)" for "([^"]*)" on model "([^"]*)"$`, s.iSearchOnModel)
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain (\d+) hits?$`, s.theResponseShouldContainHits)
	sc.Step(`^the response should contain "([^"]*)" labelled "([^"]*)"$`, s.theResponseShouldContainHit)
}

func (s *StepsContext) harvester(atomic bool) *authority.Harvester {
	return authority.NewHarvester(s.tc.Store,
		authority.WithLogger(logging.Discard()),
		authority.WithAtomic(atomic),
	)
}

// Sources

func (s *StepsContext) aSourceContaining(name string, content *godog.DocString) error {
	return os.WriteFile(filepath.Join(s.dir, name), []byte(content.Content+"\n"), 0o600)
}

func (s *StepsContext) subjectEntriesLabelled(count int, label string) error {
	rows := make([]model.SubjectEntry, 0, count)
	for i := 0; i < count; i++ {
		l := fmt.Sprintf("%s %d", label, i)
		rows = append(rows, model.SubjectEntry{
			URL:        fmt.Sprintf("http://id.loc.gov/authorities/subjects/sh%d", i),
			Label:      l,
			LowerLabel: fmt.Sprintf("%s %d", strings.ToLower(label), i),
		})
	}
	return s.tc.DB.Create(&rows).Error
}

// Harvest

func (s *StepsContext) iHarvestRDF(name, source string) error {
	_, s.harvestErr = s.harvester(false).HarvestRDF(context.Background(), name,
		[]string{filepath.Join(s.dir, source)}, authority.RDFOptions{})
	return nil
}

func (s *StepsContext) iHarvestTSV(name, source, prefix string) error {
	_, s.harvestErr = s.harvester(false).HarvestTSV(context.Background(), name,
		[]string{filepath.Join(s.dir, source)}, authority.TSVOptions{Prefix: prefix})
	return nil
}

func (s *StepsContext) iAtomicallyHarvestTSV(name, source string) error {
	_, s.harvestErr = s.harvester(true).HarvestTSV(context.Background(), name,
		[]string{filepath.Join(s.dir, source)}, authority.TSVOptions{})
	return nil
}

func (s *StepsContext) theHarvestShouldSucceed() error {
	return s.harvestErr
}

func (s *StepsContext) theHarvestShouldFailWithAMalformedLine() error {
	if !errors.Is(s.harvestErr, authority.ErrMalformedLine) {
		return fmt.Errorf("expected a malformed line error, got %v", s.harvestErr)
	}
	return nil
}

func (s *StepsContext) authorityShouldHaveEntries(name string, expected int) error {
	a, err := s.tc.Store.FindAuthorityByName(context.Background(), name)
	if err != nil {
		return err
	}
	var count int64
	if err := s.tc.DB.Model(&model.Entry{}).Where("local_authority_id = ?", a.ID).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(expected) {
		return fmt.Errorf("expected %d entries in %q, got %d", expected, name, count)
	}
	return nil
}

func (s *StepsContext) authorityShouldNotExist(name string) error {
	_, err := s.tc.Store.FindAuthorityByName(context.Background(), name)
	if !errors.Is(err, authority.ErrAuthorityNotFound) {
		return fmt.Errorf("expected authority %q to be absent, got %v", name, err)
	}
	return nil
}

func (s *StepsContext) authorityShouldContain(name, uri, label string) error {
	a, err := s.tc.Store.FindAuthorityByName(context.Background(), name)
	if err != nil {
		return err
	}
	var entry model.Entry
	err = s.tc.DB.Where("local_authority_id = ? AND uri = ?", a.ID, uri).Take(&entry).Error
	if err != nil {
		return fmt.Errorf("entry %s not found in %q: %w", uri, name, err)
	}
	if entry.Label != label {
		return fmt.Errorf("expected label %q for %s, got %q", label, uri, entry.Label)
	}
	return nil
}

func (s *StepsContext) iDeleteAuthority(name string) error {
	return s.tc.Store.DeleteAuthority(context.Background(), name)
}

// Vocabulary

func (s *StepsContext) register(scope authority.Scope, term, name string) error {
	return authority.NewRegistry(s.tc.Store, logging.Discard()).RegisterVocabulary(context.Background(), scope, term, name)
}

func (s *StepsContext) iRegisterForModel(name, term, modelName string) error {
	return s.register(authority.ForModel(modelName), term, name)
}

func (s *StepsContext) iRegisterForAnyModel(name, term string) error {
	return s.register(authority.AnyModel(), term, name)
}

func (s *StepsContext) termShouldHaveBoundAuthorities(term, modelName string, expected int) error {
	dt, err := s.tc.Store.FindDomainTerm(context.Background(), authority.ForModel(modelName), term)
	if err != nil {
		return err
	}
	ids, err := s.tc.Store.AuthorityIDs(context.Background(), dt.ID)
	if err != nil {
		return err
	}
	if len(ids) != expected {
		return fmt.Errorf("expected %d bound authorities, got %d", expected, len(ids))
	}
	return nil
}

// Lookup over HTTP

func (s *StepsContext) search(term string, params url.Values) error {
	u := s.tc.ServerURL + "/authorities/search/" + url.PathEscape(term) + "?" + params.Encode()
	resp, err := s.tc.HTTPClient.Get(u)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	s.hits = nil
	if resp.StatusCode == http.StatusOK {
		return json.Unmarshal(s.responseBody, &s.hits)
	}
	return nil
}

func (s *StepsContext) iSearch(term, query string) error {
	return s.search(term, url.Values{"q": {query}})
}

func (s *StepsContext) iSearchOnModel(term, query, modelName string) error {
	return s.search(term, url.Values{"q": {query}, "model": {modelName}})
}

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContainHits(expected int) error {
	if len(s.hits) != expected {
		return fmt.Errorf("expected %d hits, got %d: %s", expected, len(s.hits), string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContainHit(uri, label string) error {
	for _, hit := range s.hits {
		if hit.URI == uri && hit.Label == label {
			return nil
		}
	}
	return fmt.Errorf("hit %s %q not found in %s", uri, label, string(s.responseBody))
}
