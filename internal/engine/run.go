package engine

import "github.com/atiaxi/kuiper-sub000/internal/kuiper"

// process - одно возобновляемое вычисление движка (серия, выдача, проверка миссии).
type process interface {
	step() kuiper.Outcome
	pending() kuiper.Step
	resolve(answer bool)
}

// Run - "ожидающая пара": шаг, который нужно показать пользователю,
// и точка продолжения. Завершенный Run хранит итог.
type Run struct {
	Mission *kuiper.Mission

	proc    process
	outcome kuiper.Outcome
}

func start(m *kuiper.Mission, proc process) *Run {
	r := &Run{Mission: m, proc: proc}
	r.outcome = proc.step()
	return r
}

func finished(m *kuiper.Mission, o kuiper.Outcome) *Run {
	return &Run{Mission: m, outcome: o}
}

// Outcome - текущий результат: Pending, пока вычисление приостановлено.
func (r *Run) Outcome() kuiper.Outcome { return r.outcome }

// Done сообщает, что вычисление завершено.
func (r *Run) Done() bool { return r.outcome != kuiper.Pending }

// Pending возвращает шаг для показа (вопрос да/нет или сообщение).
func (r *Run) Pending() kuiper.Step {
	if r.Done() {
		return nil
	}
	return r.proc.pending()
}

// Prompt - текст ожидающего шага ("" если шаг не Prompter).
func (r *Run) Prompt() string {
	if p, ok := r.Pending().(kuiper.Prompter); ok {
		return p.Prompt()
	}
	return ""
}

// Resume передает ответ пользователя и продолжает вычисление с того же шага.
func (r *Run) Resume(answer bool) kuiper.Outcome {
	if r.Done() {
		return r.outcome
	}
	r.proc.resolve(answer)
	r.outcome = r.proc.step()
	return r.outcome
}

// seriesProcess - одна серия и необязательное действие по ее успешному завершению.
type seriesProcess struct {
	series *Series
	onTrue func()
}

func (p *seriesProcess) step() kuiper.Outcome {
	o := p.series.Run()
	if o == kuiper.True && p.onTrue != nil {
		p.onTrue()
	}
	return o
}

func (p *seriesProcess) pending() kuiper.Step { return p.series.Pending() }
func (p *seriesProcess) resolve(answer bool)  { p.series.Resolve(answer) }

// checkProcess проходит IfThen миссии по порядку: ifs, затем thens.
// Ожидание блокирует следующие IfThen этой миссии до ответа.
type checkProcess struct {
	env    *kuiper.Env
	player *kuiper.Player
	m      *kuiper.Mission
	checks []*kuiper.IfThen

	idx   int
	ifs   *Series
	thens *Series
	fired bool
}

func (p *checkProcess) step() kuiper.Outcome {
	for p.idx < len(p.checks) {
		// Миссия могла завершиться действием предыдущей проверки.
		if !p.player.HasMission(p.m) {
			break
		}
		it := p.checks[p.idx]

		if p.thens == nil {
			if p.ifs == nil {
				p.ifs = NewSeries(it.Ifs, p.m, p.env)
			}
			switch p.ifs.Run() {
			case kuiper.Pending:
				return kuiper.Pending
			case kuiper.False:
				p.next()
				continue
			}
			p.thens = NewSeries(it.Thens, p.m, p.env)
		}

		switch p.thens.Run() {
		case kuiper.Pending:
			return kuiper.Pending
		case kuiper.True:
			p.fired = true
		}
		p.next()
	}
	return kuiper.OutcomeOf(p.fired)
}

func (p *checkProcess) next() {
	p.idx++
	p.ifs = nil
	p.thens = nil
}

func (p *checkProcess) current() *Series {
	if p.thens != nil {
		return p.thens
	}
	return p.ifs
}

func (p *checkProcess) pending() kuiper.Step {
	if s := p.current(); s != nil {
		return s.Pending()
	}
	return nil
}

func (p *checkProcess) resolve(answer bool) {
	if s := p.current(); s != nil {
		s.Resolve(answer)
	}
}
