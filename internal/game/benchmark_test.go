package game

import (
	"math/rand"
	"testing"

	"brawl/internal/config"
)

// =============================================================================
// BENCHMARK SUITE: CRITICAL PATH PERFORMANCE TESTS
// Run with: go test -bench=. -benchmem ./internal/game/...
// =============================================================================

// -----------------------------------------------------------------------------
// MATCH STEP BENCHMARKS
// -----------------------------------------------------------------------------

func BenchmarkMatchStep_Idle(b *testing.B) {
	m, _ := NewMatch(Shadow, Stone, MatchOptions{Seed: 1})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		m.Step([2]Input{})
	}
}

func BenchmarkMatchStep_Shadow(b *testing.B) { benchmarkBrawl(b, Shadow) }
func BenchmarkMatchStep_Volt(b *testing.B)   { benchmarkBrawl(b, Volt) }
func BenchmarkMatchStep_Flame(b *testing.B)  { benchmarkBrawl(b, Flame) }
func BenchmarkMatchStep_Stone(b *testing.B)  { benchmarkBrawl(b, Stone) }

// benchmarkBrawl runs a mirror match under the scripted brawler, starting a
// fresh match whenever one ends.
func benchmarkBrawl(b *testing.B, a Archetype) {
	bot := brawler{specialEvery: 60, gap: 10}
	m, _ := NewMatch(a, a, MatchOptions{Seed: 1})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if m.Over() {
			b.StopTimer()
			m, _ = NewMatch(a, a, MatchOptions{Seed: int64(i)})
			b.StartTimer()
		}
		m.Step([2]Input{bot.input(m, 0), bot.input(m, 1)})
	}
}

// -----------------------------------------------------------------------------
// SNAPSHOT BENCHMARKS
// -----------------------------------------------------------------------------

func BenchmarkCapture_NoParticles(b *testing.B) { benchmarkCapture(b, 0) }
func BenchmarkCapture_100Particles(b *testing.B) { benchmarkCapture(b, 100) }
func BenchmarkCapture_500Particles(b *testing.B) { benchmarkCapture(b, 500) }

func benchmarkCapture(b *testing.B, particles int) {
	m, _ := NewMatch(Flame, Volt, MatchOptions{Seed: 1})
	for i, f := range m.Fighters {
		for j := 0; j < particles/2; j++ {
			f.Particles.Spawn(float64(j), float64(i), 0, 0, hitSpark, 3, 1000)
		}
	}
	snap := MatchSnapshot{Particles: make([]ParticleSnapshot, 0, 256)}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		m.Capture(&snap, 256)
	}
}

func BenchmarkEngineTick(b *testing.B) {
	e := NewEngine(EngineConfig{App: config.AppConfig{Seed: 1, Limits: config.DefaultLimits()}})
	e.StartMatch(Volt, Flame)
	e.SubmitInput(0, Input{Move: 1, Attack: true})
	e.SubmitInput(1, Input{Move: -1, Special: true})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		e.tick()
		if i%600 == 599 {
			b.StopTimer()
			e.Restart()
			b.StartTimer()
		}
	}
}

func BenchmarkGetSnapshot(b *testing.B) {
	e := NewEngine(EngineConfig{App: config.AppConfig{Seed: 1, Limits: config.DefaultLimits()}})
	e.StartMatch(Stone, Shadow)
	for i := 0; i < 120; i++ {
		e.tick()
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		e.GetSnapshot()
	}
}

// -----------------------------------------------------------------------------
// PARTICLE BENCHMARKS
// -----------------------------------------------------------------------------

func BenchmarkParticleBurstAndUpdate(b *testing.B) {
	ps := NewParticleSystem(0.6, rand.New(rand.NewSource(1)))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if ps.Len() < 200 {
			ps.Burst(400, 300, 20, hitSpark, 1, 5, 2, 5, 20, 40)
		}
		ps.Update()
	}
}

// -----------------------------------------------------------------------------
// COMBAT BENCHMARKS
// -----------------------------------------------------------------------------

func BenchmarkCheckHit(b *testing.B) {
	m, _ := NewMatch(Volt, Stone, MatchOptions{Seed: 1})
	a, d := m.Fighters[0], m.Fighters[1]
	d.X = a.X + a.W + 10

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		a.CheckHit(d)
	}
}
